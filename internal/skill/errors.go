package skill

import (
	"errors"
	"fmt"
)

// ErrInvalidApplication — запрос пришёл от чужого навыка
var ErrInvalidApplication = errors.New("invalid application ID")

type InvalidIntentError struct {
	Name string
}

func (e *InvalidIntentError) Error() string {
	return fmt.Sprintf("invalid intent %q", e.Name)
}

type UnsupportedRequestError struct {
	Type string
}

func (e *UnsupportedRequestError) Error() string {
	return fmt.Sprintf("unsupported request type %q", e.Type)
}

type MissingSlotError struct {
	Intent string
	Slot   string
}

func (e *MissingSlotError) Error() string {
	return fmt.Sprintf("intent %s: slot %s is required", e.Intent, e.Slot)
}
