package commands

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/sandeepkv93/lifesys/internal/model"
)

type Type string

const (
	TypeAdd      Type = "add"
	TypeDone     Type = "done"
	TypeRemove   Type = "rm"
	TypeSuggest  Type = "suggest"
	TypeDomain   Type = "domain"
	TypeWater    Type = "water"
	TypeSleep    Type = "sleep"
	TypeMood     Type = "mood"
	TypeMeal     Type = "meal"
	TypePeriod   Type = "period"
	TypeSkill    Type = "skill"
	TypeProgress Type = "progress"
	TypeSync     Type = "sync"
	TypeName     Type = "name"
	TypeReflect  Type = "reflect"
	TypeNap      Type = "nap"
)

// Types lists every command in palette order.
var Types = []Type{
	TypeAdd, TypeDone, TypeRemove, TypeSuggest, TypeDomain,
	TypeWater, TypeSleep, TypeMood, TypeMeal, TypePeriod,
	TypeSkill, TypeProgress, TypeSync, TypeReflect, TypeNap, TypeName,
}

// Usage is the one-line syntax shown in the palette.
func (t Type) Usage() string {
	switch t {
	case TypeAdd:
		return "/add [must|should|could|would] <text>"
	case TypeDone:
		return "/done <n>"
	case TypeRemove:
		return "/rm <n>"
	case TypeSuggest:
		return "/suggest <goal>"
	case TypeDomain:
		return "/domain <career|health|skills|joy>"
	case TypeWater:
		return "/water <0-8|+1|-1>"
	case TypeSleep:
		return "/sleep <hours>"
	case TypeMood:
		return "/mood <text>"
	case TypeMeal:
		return "/meal <breakfast|lunch|dinner> <text>"
	case TypePeriod:
		return "/period <YYYY-MM-DD|clear>"
	case TypeSkill:
		return "/skill <text>"
	case TypeProgress:
		return "/progress <0-100>"
	case TypeSync:
		return "/sync"
	case TypeName:
		return "/name <name>"
	case TypeReflect:
		return "/reflect"
	case TypeNap:
		return "/nap [stop]"
	default:
		return "/" + string(t)
	}
}

type ErrorCode string

const (
	ErrCodeEmptyInput      ErrorCode = "empty_input"
	ErrCodeUnknownCommand  ErrorCode = "unknown_command"
	ErrCodeInvalidArgument ErrorCode = "invalid_argument"
	ErrCodeHandlerMissing  ErrorCode = "handler_missing"
)

type CommandError struct {
	Code    ErrorCode
	Message string
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func invalid(format string, args ...any) error {
	return &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf(format, args...)}
}

type AddArgs struct {
	Priority model.Priority
	Text     string
}

// TaskRefArgs points at a task by its 1-based position on the board.
type TaskRefArgs struct {
	Index int
}

type SuggestArgs struct {
	Goal string
}

type DomainArgs struct {
	Domain model.Domain
}

// WaterArgs either sets the glass count or, when Relative, adjusts it.
type WaterArgs struct {
	Glasses  int
	Relative bool
}

type SleepArgs struct {
	Hours float64
}

type TextArgs struct {
	Text string
}

type MealArgs struct {
	Meal string
	Text string
}

type ProgressArgs struct {
	Percent int
}

type NapArgs struct {
	Stop bool
}

type Command struct {
	Type     Type
	Raw      string
	Add      *AddArgs
	TaskRef  *TaskRefArgs
	Suggest  *SuggestArgs
	Domain   *DomainArgs
	Water    *WaterArgs
	Sleep    *SleepArgs
	Text     *TextArgs
	Meal     *MealArgs
	Progress *ProgressArgs
	Nap      *NapArgs
}

func Parse(input string) (Command, error) {
	raw := strings.TrimSpace(input)
	if raw == "" {
		return Command{}, &CommandError{Code: ErrCodeEmptyInput, Message: "command is empty"}
	}
	if strings.HasPrefix(raw, "/") {
		raw = strings.TrimSpace(strings.TrimPrefix(raw, "/"))
	}
	if raw == "" {
		return Command{}, &CommandError{Code: ErrCodeEmptyInput, Message: "command is empty"}
	}

	parts := strings.Fields(raw)
	head := strings.ToLower(parts[0])
	args := parts[1:]
	rest := strings.TrimSpace(strings.Join(args, " "))

	switch Type(head) {
	case TypeAdd:
		return parseAdd(input, args)
	case TypeDone, TypeRemove, "delete", "toggle":
		return parseTaskRef(input, head, args)
	case TypeSuggest:
		if rest == "" {
			return Command{}, invalid("suggest requires a goal")
		}
		return Command{Type: TypeSuggest, Raw: input, Suggest: &SuggestArgs{Goal: rest}}, nil
	case TypeDomain:
		d, err := model.ParseDomain(rest)
		if err != nil {
			return Command{}, invalid("unknown domain %q", rest)
		}
		return Command{Type: TypeDomain, Raw: input, Domain: &DomainArgs{Domain: d}}, nil
	case TypeWater:
		return parseWater(input, args)
	case TypeSleep:
		if len(args) != 1 {
			return Command{}, invalid("sleep requires hours")
		}
		h, err := strconv.ParseFloat(args[0], 64)
		if err != nil {
			return Command{}, invalid("sleep hours must be a number: %s", args[0])
		}
		return Command{Type: TypeSleep, Raw: input, Sleep: &SleepArgs{Hours: h}}, nil
	case TypeMood, TypeSkill, TypeName:
		if rest == "" && Type(head) == TypeName {
			return Command{}, invalid("name requires a value")
		}
		return Command{Type: Type(head), Raw: input, Text: &TextArgs{Text: rest}}, nil
	case TypePeriod:
		return parsePeriod(input, rest)
	case TypeMeal:
		return parseMeal(input, args)
	case TypeProgress:
		if len(args) != 1 {
			return Command{}, invalid("progress requires a percentage")
		}
		p, err := strconv.Atoi(strings.TrimSuffix(args[0], "%"))
		if err != nil {
			return Command{}, invalid("progress must be an integer: %s", args[0])
		}
		return Command{Type: TypeProgress, Raw: input, Progress: &ProgressArgs{Percent: p}}, nil
	case TypeSync, TypeReflect:
		return Command{Type: Type(head), Raw: input}, nil
	case TypeNap:
		stop := len(args) > 0 && (strings.EqualFold(args[0], "stop") || strings.EqualFold(args[0], "cancel"))
		return Command{Type: TypeNap, Raw: input, Nap: &NapArgs{Stop: stop}}, nil
	default:
		return Command{}, &CommandError{Code: ErrCodeUnknownCommand, Message: fmt.Sprintf("unsupported command: %s", head)}
	}
}

// parseAdd takes an optional leading priority; without one the task is a MUST.
func parseAdd(raw string, args []string) (Command, error) {
	priority := model.PriorityMust
	if len(args) > 0 {
		if p, err := model.ParsePriority(args[0]); err == nil {
			priority = p
			args = args[1:]
		}
	}
	text := strings.TrimSpace(strings.Join(args, " "))
	if text == "" {
		return Command{}, invalid("add requires task text")
	}
	return Command{Type: TypeAdd, Raw: raw, Add: &AddArgs{Priority: priority, Text: text}}, nil
}

func parseTaskRef(raw, head string, args []string) (Command, error) {
	typ := Type(head)
	switch head {
	case "delete":
		typ = TypeRemove
	case "toggle":
		typ = TypeDone
	}
	if len(args) != 1 {
		return Command{}, invalid("%s requires a task number", typ)
	}
	n, err := strconv.Atoi(strings.TrimPrefix(args[0], "#"))
	if err != nil || n < 1 {
		return Command{}, invalid("task number must be a positive integer: %s", args[0])
	}
	return Command{Type: typ, Raw: raw, TaskRef: &TaskRefArgs{Index: n}}, nil
}

func parseWater(raw string, args []string) (Command, error) {
	if len(args) != 1 {
		return Command{}, invalid("water requires a glass count")
	}
	arg := args[0]
	relative := strings.HasPrefix(arg, "+") || strings.HasPrefix(arg, "-")
	n, err := strconv.Atoi(arg)
	if err != nil {
		return Command{}, invalid("water must be an integer: %s", arg)
	}
	return Command{Type: TypeWater, Raw: raw, Water: &WaterArgs{Glasses: n, Relative: relative}}, nil
}

func parsePeriod(raw, rest string) (Command, error) {
	if strings.EqualFold(rest, "clear") {
		rest = ""
	}
	if err := model.ValidatePeriodDate(rest); err != nil {
		return Command{}, invalid("period date must be YYYY-MM-DD: %s", rest)
	}
	return Command{Type: TypePeriod, Raw: raw, Text: &TextArgs{Text: rest}}, nil
}

func parseMeal(raw string, args []string) (Command, error) {
	if len(args) == 0 {
		return Command{}, invalid("meal requires breakfast, lunch or dinner")
	}
	meal := strings.ToLower(args[0])
	switch meal {
	case "breakfast", "lunch", "dinner":
	case "b":
		meal = "breakfast"
	case "l":
		meal = "lunch"
	case "d":
		meal = "dinner"
	default:
		return Command{}, invalid("unknown meal %q", args[0])
	}
	return Command{Type: TypeMeal, Raw: raw, Meal: &MealArgs{Meal: meal, Text: strings.TrimSpace(strings.Join(args[1:], " "))}}, nil
}
