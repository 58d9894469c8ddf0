package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yourname/sleepsense/internal/metrics"
	"github.com/yourname/sleepsense/internal/service"
	"github.com/yourname/sleepsense/internal/wizard"
)

// draftRequest converts and validates a submitted form.
func draftRequest(c *gin.Context, app App) (*service.DailyInputRequest, bool) {
	var draft wizard.Draft
	if err := c.ShouldBindJSON(&draft); err != nil {
		HandleError(c, app.Logger(), err, http.StatusBadRequest, "Invalid JSON")
		return nil, false
	}
	req, err := draft.Request()
	if err != nil {
		HandleError(c, app.Logger(), err, http.StatusBadRequest, "Incomplete form")
		return nil, false
	}
	if err := service.ValidateDailyInputRequest(req); err != nil {
		HandleError(c, app.Logger(), err, http.StatusBadRequest, "Validation failed")
		return nil, false
	}
	return req, true
}

func PostDailyInput(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := currentUser(c)
		req, ok := draftRequest(c, app)
		if !ok {
			return
		}

		in, err := service.CreateDailyInput(c.Request.Context(), app.DailyInputRepo(), user, req)
		if err != nil {
			HandleError(c, app.Logger(), err, statusFor(err), "Failed to save daily input")
			return
		}
		metrics.DailyInputsCreated.Inc()
		HandleCreated(c, app.Logger(), in)
	}
}

func PutDailyInput(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := currentUser(c)
		req, ok := draftRequest(c, app)
		if !ok {
			return
		}

		in, err := service.UpdateDailyInput(c.Request.Context(), app.DailyInputRepo(), user, c.Param("date"), req)
		if err != nil {
			HandleError(c, app.Logger(), err, statusFor(err), "Failed to update daily input")
			return
		}
		HandleSuccess(c, app.Logger(), in, nil)
	}
}

func GetDailyInputs(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := currentUser(c)
		inputs, err := app.DailyInputRepo().ListDailyInputs(c.Request.Context(), user.ID)
		if err != nil {
			HandleError(c, app.Logger(), err, http.StatusInternalServerError, "Failed to fetch daily inputs")
			return
		}
		HandleSuccess(c, app.Logger(), inputs, map[string]any{"count": len(inputs)})
	}
}

func GetDailyInput(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := currentUser(c)
		in, err := app.DailyInputRepo().GetDailyInput(c.Request.Context(), user.ID, c.Param("date"))
		if err != nil {
			HandleError(c, app.Logger(), err, statusFor(err), "Failed to fetch daily input")
			return
		}
		HandleSuccess(c, app.Logger(), in, nil)
	}
}

type fieldChange struct {
	Field wizard.Field `json:"field"`
	Value string       `json:"value"`
}

type draftUpdate struct {
	Draft   wizard.Draft  `json:"draft"`
	Changes []fieldChange `json:"changes"`
	Step    int           `json:"step"`
}

type draftState struct {
	Draft        wizard.Draft   `json:"draft"`
	Step         int            `json:"step"`
	StepComplete bool           `json:"step_complete"`
	Missing      []wizard.Field `json:"missing"`
	Complete     bool           `json:"complete"`
}

// PostDraft applies field changes to a form draft and reports what the given
// step still needs. Nothing is stored.
func PostDraft(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		var body draftUpdate
		if err := c.ShouldBindJSON(&body); err != nil {
			HandleError(c, app.Logger(), err, http.StatusBadRequest, "Invalid JSON")
			return
		}
		if body.Step == 0 {
			body.Step = 1
		}

		draft := body.Draft
		for _, ch := range body.Changes {
			next, err := wizard.ApplyFieldChange(draft, ch.Field, ch.Value)
			if err != nil {
				HandleError(c, app.Logger(), err, statusFor(err), "Invalid change")
				return
			}
			draft = next
		}

		missing, err := wizard.MissingFields(draft, body.Step)
		if err != nil {
			HandleError(c, app.Logger(), err, statusFor(err), "Invalid step")
			return
		}
		HandleSuccess(c, app.Logger(), draftState{
			Draft:        draft,
			Step:         body.Step,
			StepComplete: len(missing) == 0,
			Missing:      missing,
			Complete:     wizard.IsComplete(draft),
		}, nil)
	}
}
