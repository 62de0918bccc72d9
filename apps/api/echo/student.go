package echoapi

import (
	"net/http"
	"strconv"
	"time"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/studysync/studysync/core/schedule"
	"github.com/studysync/studysync/core/student"
)

type studentApi struct {
	svc         *student.Service
	scheduleSvc *schedule.Service
	validate    *validator.Validate
	translator  ut.Translator
}

func registerStudentAPI(
	g *echo.Group,
	svc *student.Service,
	scheduleSvc *schedule.Service,
	validate *validator.Validate,
	translator ut.Translator,
) {
	api := studentApi{
		svc:         svc,
		scheduleSvc: scheduleSvc,
		validate:    validate,
		translator:  translator,
	}

	sg := g.Group("/students")
	sg.POST("", api.create)
	sg.GET("", api.query)
	sg.DELETE("", api.destroyMultiple)

	dg := sg.Group("/:id", api.objectMiddleware())
	dg.GET("", api.retrieve)
	dg.PUT("", api.update)
	dg.DELETE("", api.destroy)

	dg.POST("/free-time", api.addFreeTime)
	dg.GET("/free-time", api.listFreeTime)
	dg.POST("/assignments", api.addAssignment)
	dg.GET("/assignments", api.listAssignments)
	dg.GET("/suggestions", api.suggestions)
	dg.GET("/overlaps/:otherId", api.overlaps)
}

// Handlers

func (api *studentApi) create(ctx echo.Context) error {
	var data student.NewStudent
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewStudent")
	}
	if err := data.Validate(ctx.Request().Context(), api.validate, api.svc); err != nil {
		return err
	}

	stu, err := api.svc.Create(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating student")
	}
	return ctx.JSON(http.StatusCreated, stu)
}

func (api *studentApi) query(ctx echo.Context) error {
	filter := new(student.QueryFilter)
	if err := ctx.Bind(filter); err != nil {
		return ctx.JSON(http.StatusOK, []student.Student{})
	}
	filter.Clean()
	ordering := new(Ordering)
	ordering.Bind(ctx)

	students, err := api.svc.Filter(ctx.Request().Context(), *filter, ordering.Orderings)
	if err != nil {
		return errors.Wrap(err, "querying students")
	}
	if students == nil {
		students = []student.Student{}
	}
	return ctx.JSON(http.StatusOK, students)
}

func (api *studentApi) retrieve(ctx echo.Context) error {
	stu, ok := ctx.Get("object").(student.Student)
	if !ok {
		return errors.Wrap(errStuNotFoundInCtx, "retrieving object from context")
	}
	return ctx.JSON(http.StatusOK, stu)
}

func (api *studentApi) update(ctx echo.Context) error {
	stu, ok := ctx.Get("object").(student.Student)
	if !ok {
		return errors.Wrap(errStuNotFoundInCtx, "retrieving object from context")
	}

	var data student.UpdateStudent
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateStudent")
	}
	if err := data.Validate(ctx.Request().Context(), stu, api.validate, api.svc); err != nil {
		return err
	}

	stu, err := api.svc.Update(ctx.Request().Context(), stu.ID, data)
	if err != nil {
		return errors.Wrap(err, "updating student")
	}
	return ctx.JSON(http.StatusOK, stu)
}

func (api *studentApi) destroy(ctx echo.Context) error {
	stu, ok := ctx.Get("object").(student.Student)
	if !ok {
		return errors.Wrap(errStuNotFoundInCtx, "retrieving object from context")
	}
	if err := api.svc.Delete(ctx.Request().Context(), stu.ID); err != nil {
		return errors.Wrap(err, "deleting student")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *studentApi) destroyMultiple(ctx echo.Context) error {
	var query DestroyMultipleRequest
	if err := ctx.Bind(&query); err != nil {
		return errors.Wrap(err, "binding to DestroyMultipleRequest")
	}
	if query.IDs == nil {
		return ctx.NoContent(http.StatusNoContent)
	}
	if err := api.svc.Delete(ctx.Request().Context(), query.IDs...); err != nil {
		return errors.Wrap(err, "deleting students")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *studentApi) addFreeTime(ctx echo.Context) error {
	stu, ok := ctx.Get("object").(student.Student)
	if !ok {
		return errors.Wrap(errStuNotFoundInCtx, "retrieving object from context")
	}

	var data student.NewFreeTimeSlot
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewFreeTimeSlot")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	slot, err := api.svc.AddFreeTime(ctx.Request().Context(), stu.ID, data)
	if err != nil {
		return errors.Wrap(err, "adding free time")
	}
	return ctx.JSON(http.StatusCreated, slot)
}

func (api *studentApi) listFreeTime(ctx echo.Context) error {
	stu, ok := ctx.Get("object").(student.Student)
	if !ok {
		return errors.Wrap(errStuNotFoundInCtx, "retrieving object from context")
	}

	notBefore, err := timeQueryParam(ctx, "not_before")
	if err != nil {
		return err
	}
	slots, err := api.svc.FreeTime(ctx.Request().Context(), stu.ID, notBefore)
	if err != nil {
		return errors.Wrap(err, "listing free time")
	}
	if slots == nil {
		slots = []schedule.FreeTimeSlot{}
	}
	return ctx.JSON(http.StatusOK, slots)
}

func (api *studentApi) addAssignment(ctx echo.Context) error {
	stu, ok := ctx.Get("object").(student.Student)
	if !ok {
		return errors.Wrap(errStuNotFoundInCtx, "retrieving object from context")
	}

	var data student.NewAssignment
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewAssignment")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	assignment, err := api.svc.AddAssignment(ctx.Request().Context(), stu.ID, data)
	if err != nil {
		return errors.Wrap(err, "adding assignment")
	}
	return ctx.JSON(http.StatusCreated, assignment)
}

func (api *studentApi) listAssignments(ctx echo.Context) error {
	stu, ok := ctx.Get("object").(student.Student)
	if !ok {
		return errors.Wrap(errStuNotFoundInCtx, "retrieving object from context")
	}

	assignments, err := api.svc.Assignments(ctx.Request().Context(), stu.ID)
	if err != nil {
		return errors.Wrap(err, "listing assignments")
	}
	if assignments == nil {
		assignments = []schedule.Assignment{}
	}
	return ctx.JSON(http.StatusOK, assignments)
}

func (api *studentApi) suggestions(ctx echo.Context) error {
	stu, ok := ctx.Get("object").(student.Student)
	if !ok {
		return errors.Wrap(errStuNotFoundInCtx, "retrieving object from context")
	}

	now, err := timeQueryParam(ctx, "now")
	if err != nil {
		return err
	}
	if now.IsZero() {
		now = time.Now().UTC()
	}

	suggestions, err := api.scheduleSvc.SuggestionsFor(ctx.Request().Context(), stu.Email, now)
	if err != nil {
		return errors.Wrap(err, "computing suggestions")
	}
	if suggestions == nil {
		suggestions = []schedule.MeetingSuggestion{}
	}
	return ctx.JSON(http.StatusOK, suggestions)
}

func (api *studentApi) overlaps(ctx echo.Context) error {
	stu, ok := ctx.Get("object").(student.Student)
	if !ok {
		return errors.Wrap(errStuNotFoundInCtx, "retrieving object from context")
	}

	otherID, err := strconv.Atoi(ctx.Param("otherId"))
	if err != nil {
		return errHttpNotFound
	}
	other, err := api.svc.GetByID(ctx.Request().Context(), otherID)
	if err != nil {
		if errors.Cause(err) == student.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "finding student by ID")
	}

	overlaps, err := api.scheduleSvc.OverlapsBetween(ctx.Request().Context(), stu.Email, other.Email)
	if err != nil {
		return errors.Wrap(err, "computing overlaps")
	}
	if overlaps == nil {
		overlaps = []schedule.Overlap{}
	}
	return ctx.JSON(http.StatusOK, overlaps)
}

// objectMiddleware resolves the :id path param into the Student it names and
// stashes it in the request context.
func (api *studentApi) objectMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			id, err := strconv.Atoi(ctx.Param("id"))
			if err != nil {
				return errHttpNotFound
			}
			stu, err := api.svc.GetByID(ctx.Request().Context(), id)
			if err != nil {
				if errors.Cause(err) == student.ErrNotFound {
					return errHttpNotFound
				}
				return errors.Wrap(err, "finding student by ID")
			}
			ctx.Set("object", stu)
			return next(ctx)
		}
	}
}

var errStuNotFoundInCtx = errors.New("student object not found in echo.Context")

type DestroyMultipleRequest struct {
	IDs []int `query:"id"`
}

// timeQueryParam parses an optional RFC3339 query param; zero when absent.
func timeQueryParam(ctx echo.Context, name string) (time.Time, error) {
	val := ctx.QueryParam(name)
	if val == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(time.RFC3339, val)
	if err != nil {
		return time.Time{}, echo.NewHTTPError(http.StatusBadRequest, name+" must be RFC3339")
	}
	return t.UTC(), nil
}
