package commands

import "fmt"

type Result struct {
	Message string
}

// Handlers binds each command to an action. Unset handlers report
// ErrCodeHandlerMissing.
type Handlers struct {
	Add      func(AddArgs) (Result, error)
	Done     func(TaskRefArgs) (Result, error)
	Remove   func(TaskRefArgs) (Result, error)
	Suggest  func(SuggestArgs) (Result, error)
	Domain   func(DomainArgs) (Result, error)
	Water    func(WaterArgs) (Result, error)
	Sleep    func(SleepArgs) (Result, error)
	Mood     func(TextArgs) (Result, error)
	Meal     func(MealArgs) (Result, error)
	Period   func(TextArgs) (Result, error)
	Skill    func(TextArgs) (Result, error)
	Progress func(ProgressArgs) (Result, error)
	Sync     func() (Result, error)
	Name     func(TextArgs) (Result, error)
	Reflect  func() (Result, error)
	Nap      func(NapArgs) (Result, error)
}

func Execute(cmd Command, handlers Handlers) (Result, error) {
	switch cmd.Type {
	case TypeAdd:
		return call(cmd.Type, handlers.Add, cmd.Add)
	case TypeDone:
		return call(cmd.Type, handlers.Done, cmd.TaskRef)
	case TypeRemove:
		return call(cmd.Type, handlers.Remove, cmd.TaskRef)
	case TypeSuggest:
		return call(cmd.Type, handlers.Suggest, cmd.Suggest)
	case TypeDomain:
		return call(cmd.Type, handlers.Domain, cmd.Domain)
	case TypeWater:
		return call(cmd.Type, handlers.Water, cmd.Water)
	case TypeSleep:
		return call(cmd.Type, handlers.Sleep, cmd.Sleep)
	case TypeMood:
		return call(cmd.Type, handlers.Mood, cmd.Text)
	case TypeMeal:
		return call(cmd.Type, handlers.Meal, cmd.Meal)
	case TypePeriod:
		return call(cmd.Type, handlers.Period, cmd.Text)
	case TypeSkill:
		return call(cmd.Type, handlers.Skill, cmd.Text)
	case TypeProgress:
		return call(cmd.Type, handlers.Progress, cmd.Progress)
	case TypeName:
		return call(cmd.Type, handlers.Name, cmd.Text)
	case TypeNap:
		return call(cmd.Type, handlers.Nap, cmd.Nap)
	case TypeSync:
		return call0(cmd.Type, handlers.Sync)
	case TypeReflect:
		return call0(cmd.Type, handlers.Reflect)
	default:
		return Result{}, &CommandError{Code: ErrCodeUnknownCommand, Message: fmt.Sprintf("unknown command type: %s", cmd.Type)}
	}
}

func call[A any](t Type, fn func(A) (Result, error), args *A) (Result, error) {
	if fn == nil {
		return Result{}, missing(t)
	}
	if args == nil {
		return Result{}, &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("%s has no arguments", t)}
	}
	return fn(*args)
}

func call0(t Type, fn func() (Result, error)) (Result, error) {
	if fn == nil {
		return Result{}, missing(t)
	}
	return fn()
}

func missing(t Type) error {
	return &CommandError{Code: ErrCodeHandlerMissing, Message: fmt.Sprintf("%s handler not configured", t)}
}
