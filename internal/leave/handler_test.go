package leave_test

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"

	"github.com/frahmantamala/leave-management/internal"
	"github.com/frahmantamala/leave-management/internal/leave"
	"github.com/frahmantamala/leave-management/internal/transport"
	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

type mockLeaveService struct {
	submitResult *leave.SubmitResult
	request      *leave.Request
	failError    error

	gotEmployeeID string
	gotRequestID  string
	gotSubmit     leave.SubmitLeaveDTO
	gotDecision   leave.DecisionDTO
}

func (m *mockLeaveService) Submit(ctx context.Context, employeeID string, dto leave.SubmitLeaveDTO) (*leave.SubmitResult, error) {
	m.gotEmployeeID = employeeID
	m.gotSubmit = dto
	if m.failError != nil {
		return nil, m.failError
	}
	return m.submitResult, nil
}

func (m *mockLeaveService) Cancel(ctx context.Context, requestID, callerID string) (*leave.Request, error) {
	m.gotRequestID = requestID
	m.gotEmployeeID = callerID
	if m.failError != nil {
		return nil, m.failError
	}
	return m.request, nil
}

func (m *mockLeaveService) Decide(ctx context.Context, requestID string, caller *internal.Caller, dto leave.DecisionDTO) (*leave.Request, error) {
	m.gotRequestID = requestID
	m.gotEmployeeID = caller.EmployeeID
	m.gotDecision = dto
	if m.failError != nil {
		return nil, m.failError
	}
	return m.request, nil
}

func (m *mockLeaveService) GetRequest(ctx context.Context, id string, caller *internal.Caller) (*leave.Request, error) {
	return m.request, m.failError
}

func (m *mockLeaveService) ListForEmployee(ctx context.Context, employeeID string) ([]*leave.Request, error) {
	return nil, m.failError
}

func (m *mockLeaveService) ListPendingApprovals(ctx context.Context, approverID string) ([]*leave.Request, error) {
	return nil, m.failError
}

func (m *mockLeaveService) FindConflicts(ctx context.Context, employeeID, startDate, endDate, excludeID string) ([]leave.Conflict, error) {
	return nil, m.failError
}

type errorEnvelope struct {
	Error struct {
		Type    string                 `json:"type"`
		Code    string                 `json:"code"`
		Message string                 `json:"message"`
		Details map[string]interface{} `json:"details"`
	} `json:"error"`
}

var _ = Describe("Leave Handler", func() {
	var (
		handler *leave.Handler
		service *mockLeaveService

		staff    = &internal.Caller{EmployeeID: "TSG0091", Name: "Suraj", Role: "employee"}
		approver = &internal.Caller{EmployeeID: "TSG0094", Name: "Vishal", Role: "manager"}
	)

	BeforeEach(func() {
		slogger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		service = &mockLeaveService{}
		handler = leave.NewHandler(&transport.BaseHandler{Logger: slogger}, service)
	})

	newRequest := func(method, target, body string, caller *internal.Caller, id string) *http.Request {
		req := httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		ctx := req.Context()
		if id != "" {
			rctx := chi.NewRouteContext()
			rctx.URLParams.Add("id", id)
			ctx = context.WithValue(ctx, chi.RouteCtxKey, rctx)
		}
		if caller != nil {
			ctx = internal.ContextWithCaller(ctx, caller)
		}
		return req.WithContext(ctx)
	}

	decodeError := func(w *httptest.ResponseRecorder) errorEnvelope {
		var envelope errorEnvelope
		Expect(json.Unmarshal(w.Body.Bytes(), &envelope)).To(Succeed())
		return envelope
	}

	Describe("POST /leaves", func() {
		It("should submit on behalf of the caller", func() {
			// Given
			service.submitResult = &leave.SubmitResult{
				Request:    &leave.Request{ID: "req-1", Status: leave.StatusPending, Days: 2},
				ApproverID: "TSG0094",
				Warnings:   []string{"Request includes 1 weekend day(s)"},
			}
			body := `{"category_id":"casual","start_date":"2025-08-04","end_date":"2025-08-05","reason":"trip"}`

			// When
			w := httptest.NewRecorder()
			handler.SubmitRequest(w, newRequest(http.MethodPost, "/leaves", body, staff, ""))

			// Then
			Expect(w.Code).To(Equal(http.StatusCreated))
			Expect(service.gotEmployeeID).To(Equal("TSG0091"))
			Expect(service.gotSubmit.CategoryID).To(Equal("casual"))

			var result leave.SubmitResult
			Expect(json.Unmarshal(w.Body.Bytes(), &result)).To(Succeed())
			Expect(result.Request.ID).To(Equal("req-1"))
			Expect(result.ApproverID).To(Equal("TSG0094"))
			Expect(result.Warnings).To(HaveLen(1))
		})

		It("should report the LOP cap shortfall", func() {
			// Given
			service.failError = internal.NewLimitExceededError("Would exceed annual LOP limit", internal.LimitDetails{
				TotalUsed: 9, Requested: 2, Remaining: 1, ExceedsBy: 1, Max: 10,
			})
			body := `{"category_id":"casual","start_date":"2025-08-04","end_date":"2025-08-05","reason":"trip"}`

			// When
			w := httptest.NewRecorder()
			handler.SubmitRequest(w, newRequest(http.MethodPost, "/leaves", body, staff, ""))

			// Then
			Expect(w.Code).To(Equal(http.StatusUnprocessableEntity))
			envelope := decodeError(w)
			Expect(envelope.Error.Type).To(Equal("LIMIT_EXCEEDED"))
			Expect(envelope.Error.Code).To(Equal("LOP_LIMIT_EXCEEDED"))
			Expect(envelope.Error.Details).To(HaveKeyWithValue("exceeds_by", BeNumerically("==", 1)))
			Expect(envelope.Error.Details).To(HaveKeyWithValue("remaining", BeNumerically("==", 1)))
			Expect(envelope.Error.Details).To(HaveKeyWithValue("max", BeNumerically("==", 10)))
		})

		It("should reject unknown fields before reaching the service", func() {
			w := httptest.NewRecorder()
			handler.SubmitRequest(w, newRequest(http.MethodPost, "/leaves", `{"days":3}`, staff, ""))

			Expect(w.Code).To(Equal(http.StatusBadRequest))
			Expect(decodeError(w).Error.Type).To(Equal("VALIDATION_ERROR"))
			Expect(service.gotEmployeeID).To(BeEmpty())
		})

		It("should require an identity", func() {
			w := httptest.NewRecorder()
			handler.SubmitRequest(w, newRequest(http.MethodPost, "/leaves", `{}`, nil, ""))

			Expect(w.Code).To(Equal(http.StatusUnauthorized))
			Expect(decodeError(w).Error.Type).To(Equal("UNAUTHORIZED"))
		})
	})

	Describe("POST /leaves/{id}/cancel", func() {
		It("should cancel the caller's request", func() {
			service.request = &leave.Request{ID: "req-1", Status: leave.StatusCancelled}

			w := httptest.NewRecorder()
			handler.CancelRequest(w, newRequest(http.MethodPost, "/leaves/req-1/cancel", "", staff, "req-1"))

			Expect(w.Code).To(Equal(http.StatusOK))
			Expect(service.gotRequestID).To(Equal("req-1"))
			Expect(service.gotEmployeeID).To(Equal("TSG0091"))
		})

		It("should return a state error for a request that is no longer pending", func() {
			// Given
			service.failError = internal.ErrRequestNotPending

			// When
			w := httptest.NewRecorder()
			handler.CancelRequest(w, newRequest(http.MethodPost, "/leaves/req-1/cancel", "", staff, "req-1"))

			// Then
			Expect(w.Code).To(Equal(http.StatusConflict))
			envelope := decodeError(w)
			Expect(envelope.Error.Type).To(Equal("STATE_ERROR"))
			Expect(envelope.Error.Code).To(Equal("REQUEST_NOT_PENDING"))
		})
	})

	Describe("POST /approvals/{id}/decision", func() {
		It("should pass the decision through for the approver", func() {
			// Given
			service.request = &leave.Request{ID: "req-1", Status: leave.StatusApproved}

			// When
			w := httptest.NewRecorder()
			handler.Decide(w, newRequest(http.MethodPost, "/approvals/req-1/decision", `{"action":"approve","comments":"enjoy"}`, approver, "req-1"))

			// Then
			Expect(w.Code).To(Equal(http.StatusOK))
			Expect(service.gotRequestID).To(Equal("req-1"))
			Expect(service.gotEmployeeID).To(Equal("TSG0094"))
			Expect(service.gotDecision.Action).To(Equal(leave.ActionApprove))

			var decided leave.Request
			Expect(json.Unmarshal(w.Body.Bytes(), &decided)).To(Succeed())
			Expect(decided.Status).To(Equal(leave.StatusApproved))
		})

		It("should forbid callers who are not the approver", func() {
			service.failError = internal.ErrNotRequestApprover

			w := httptest.NewRecorder()
			handler.Decide(w, newRequest(http.MethodPost, "/approvals/req-1/decision", `{"action":"reject"}`, staff, "req-1"))

			Expect(w.Code).To(Equal(http.StatusForbidden))
			envelope := decodeError(w)
			Expect(envelope.Error.Type).To(Equal("FORBIDDEN"))
			Expect(envelope.Error.Code).To(Equal("NOT_REQUEST_APPROVER"))
		})

		It("should surface the cap check made at approval", func() {
			service.failError = internal.NewLimitExceededError("Would exceed annual LOP limit", internal.LimitDetails{
				TotalUsed: 10, Requested: 1, ExceedsBy: 1, Max: 10,
			})

			w := httptest.NewRecorder()
			handler.Decide(w, newRequest(http.MethodPost, "/approvals/req-1/decision", `{"action":"approve"}`, approver, "req-1"))

			Expect(w.Code).To(Equal(http.StatusUnprocessableEntity))
			Expect(decodeError(w).Error.Details).To(HaveKeyWithValue("exceeds_by", BeNumerically("==", 1)))
		})
	})
})
