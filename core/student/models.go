package student

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/studysync/studysync/core"
)

type Student struct {
	ID        int       `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"` // UTC
	UpdatedAt time.Time `json:"updated_at"` // UTC
}

// NewStudent contains information needed to create a new Student.
type NewStudent struct {
	Name  string `json:"name" validate:"required"`
	Email string `json:"email" validate:"required,email"`
}

func (ns *NewStudent) Validate(ctx context.Context, validate *validator.Validate, svc *Service) error {
	ns.Name = core.CleanString(ns.Name)
	ns.Email = core.CleanString(ns.Email, true /* lower */)

	if err := validate.Struct(ns); err != nil {
		return err
	}
	return svc.CheckUniqueness(ctx, ns.Email)
}

// UpdateStudent defines what information may be provided to modify an existing Student.
type UpdateStudent struct {
	Name  string `json:"name"`
	Email string `json:"email" validate:"omitempty,email"`
}

func (us *UpdateStudent) Validate(ctx context.Context, origStu Student, validate *validator.Validate, svc *Service) error {
	name := core.CleanString(us.Name)
	if name != "" {
		us.Name = name
	} else {
		us.Name = origStu.Name
	}

	email := core.CleanString(us.Email, true /* lower */)
	if email != "" {
		us.Email = email
	} else {
		us.Email = origStu.Email
	}

	if err := validate.Struct(us); err != nil {
		return err
	}
	return svc.CheckUniqueness(ctx, us.Email, origStu)
}

// NewFreeTimeSlot declares one availability interval for a student.
type NewFreeTimeSlot struct {
	Start time.Time `json:"start" validate:"required"`
	End   time.Time `json:"end" validate:"required"`
}

func (nf *NewFreeTimeSlot) Validate(validate *validator.Validate) error {
	if err := validate.Struct(nf); err != nil {
		return err
	}
	if !nf.End.After(nf.Start) {
		err := errEndBeforeStart
		return core.NewValidationError(err, core.FieldError{Field: "end", Error: "must be after start"})
	}
	return nil
}

// NewAssignment registers a student on an assignment; the same title and due
// date always resolve to the same shared assignment.
type NewAssignment struct {
	Title string    `json:"title" validate:"required"`
	DueAt time.Time `json:"due_at" validate:"required,future"`
}

func (na *NewAssignment) Validate(validate *validator.Validate) error {
	na.Title = core.CleanString(na.Title)
	return validate.Struct(na)
}

type QueryFilter struct {
	Search      string    `query:"search"`
	CreatedFrom time.Time `query:"created_from"`
	CreatedTo   time.Time `query:"created_to"`
}

func (qf *QueryFilter) IsEmpty() bool {
	return qf.Search == "" && qf.CreatedFrom.IsZero() && qf.CreatedTo.IsZero()
}

func (qf *QueryFilter) Clean() {
	qf.Search = core.CleanString(qf.Search)
}
