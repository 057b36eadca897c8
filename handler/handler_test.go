package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/notblessy/seopilot/billing"
	"github.com/notblessy/seopilot/config"
	"github.com/notblessy/seopilot/db"
	"github.com/notblessy/seopilot/metrics"
	"github.com/notblessy/seopilot/model"
	"github.com/notblessy/seopilot/repository"
	"github.com/notblessy/seopilot/testutil"
	"github.com/notblessy/seopilot/utils"
	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v76"
)

type server struct {
	e       *echo.Echo
	gateway *testutil.FakeGateway
	subs    repository.SubscriptionRepository
	mailer  *testutil.RecordingMailer
}

type serverOption func(*config.Config)

func withRateLimit(perMinute int) serverOption {
	return func(cfg *config.Config) {
		cfg.SubscribeRatePerMinute = perMinute
	}
}

func setupServer(t *testing.T, withGateway bool, opts ...serverOption) *server {
	t.Helper()

	conn := testutil.NewDB(t)
	plans := repository.NewPlanRepository(conn)
	subs := repository.NewSubscriptionRepository(conn)
	require.NoError(t, db.SeedPlans(context.Background(), plans))

	cfg := &config.Config{
		BaseURL:                "http://localhost:8080",
		JWTSecret:              "test-secret",
		PlanCacheTTL:           time.Minute,
		SubscribeRatePerMinute: 100,
		Stripe: config.StripeConfig{
			SecretKey:      "sk_test",
			PublishableKey: "pk_test",
			Currency:       "usd",
		},
	}
	for _, opt := range opts {
		opt(cfg)
	}

	s := &server{subs: subs, mailer: &testutil.RecordingMailer{}}
	m := metrics.New()

	var gateway utils.PaymentGateway
	if withGateway {
		s.gateway = testutil.NewFakeGateway()
		gateway = s.gateway
	}

	s.e = echo.New()
	SetupRoutes(s.e, Dependencies{
		Config:   cfg,
		UserRepo: repository.NewUserRepository(conn),
		Catalog:  billing.NewCatalog(plans, nil, cfg.PlanCacheTTL, m),
		Billing:  billing.NewService(plans, subs, gateway, s.mailer, m, "usd"),
		Metrics:  m,
		Assets:   utils.DefaultAssets(),
	})

	return s
}

func (s *server) do(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)
	return rec
}

func (s *server) get(path string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	return s.do(req)
}

func (s *server) postJSON(path string, body interface{}, headers ...string) *httptest.ResponseRecorder {
	raw, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(string(raw)))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	return s.do(req)
}

func (s *server) postForm(path string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	return s.do(req)
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, dest interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), dest))
}

func identityForm(plan, email, name string) url.Values {
	return url.Values{
		"planName":  {plan},
		"userEmail": {email},
		"userName":  {name},
	}
}

func TestPing(t *testing.T) {
	s := setupServer(t, false)

	rec := s.get("/ping")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "pong")
}

func TestGetPlans(t *testing.T) {
	s := setupServer(t, false)

	rec := s.get("/api/subscription-plans")
	require.Equal(t, http.StatusOK, rec.Code)

	var plans []map[string]interface{}
	decode(t, rec, &plans)
	require.Len(t, plans, 3)
	assert.Equal(t, "basic", plans[0]["name"])
}

func TestGetOrCreateSubscription_API(t *testing.T) {
	body := map[string]string{"planName": "pro", "userEmail": "jane@example.com", "userName": "Jane"}

	t.Run("demo mode", func(t *testing.T) {
		s := setupServer(t, false)

		rec := s.postJSON("/api/get-or-create-subscription", body)
		require.Equal(t, http.StatusOK, rec.Code)

		var resp model.CreateSubscriptionResponse
		decode(t, rec, &resp)
		assert.True(t, resp.DemoMode)
		assert.Empty(t, resp.ClientSecret)
	})

	t.Run("client secret", func(t *testing.T) {
		s := setupServer(t, true)

		rec := s.postJSON("/api/get-or-create-subscription", body)
		require.Equal(t, http.StatusOK, rec.Code)

		var resp model.CreateSubscriptionResponse
		decode(t, rec, &resp)
		assert.True(t, strings.HasPrefix(resp.ClientSecret, "pi_"))
		assert.False(t, resp.DemoMode)
	})

	t.Run("missing fields", func(t *testing.T) {
		s := setupServer(t, true)

		rec := s.postJSON("/api/get-or-create-subscription", map[string]string{"planName": "pro", "userEmail": " "})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "required")
		assert.Zero(t, s.gateway.Calls)
	})

	t.Run("unknown plan", func(t *testing.T) {
		s := setupServer(t, true)

		rec := s.postJSON("/api/get-or-create-subscription", map[string]string{"planName": "gold", "userEmail": "jane@example.com", "userName": "Jane"})
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Contains(t, rec.Body.String(), "Plan not found")
	})

	t.Run("processor error", func(t *testing.T) {
		s := setupServer(t, true)
		s.gateway.CreateErr = &stripe.Error{Msg: "Card declined"}

		rec := s.postJSON("/api/get-or-create-subscription", body)
		assert.Equal(t, http.StatusBadGateway, rec.Code)

		var resp errorResponse
		decode(t, rec, &resp)
		assert.Equal(t, "Card declined", resp.Message)
	})
}

func TestSubscribeRateLimit(t *testing.T) {
	body := map[string]string{"planName": "pro", "userEmail": "jane@example.com", "userName": "Jane"}

	t.Run("api answers with json", func(t *testing.T) {
		s := setupServer(t, false, withRateLimit(1))

		assert.Equal(t, http.StatusOK, s.postJSON("/api/get-or-create-subscription", body).Code)

		rec := s.postJSON("/api/get-or-create-subscription", body)
		assert.Equal(t, http.StatusTooManyRequests, rec.Code)

		var resp errorResponse
		decode(t, rec, &resp)
		assert.Equal(t, rateLimitedMessage, resp.Message)
	})

	t.Run("form keeps identity form with alert", func(t *testing.T) {
		s := setupServer(t, true, withRateLimit(1))

		first := s.postForm("/subscribe", identityForm("pro", "jane@example.com", "Jane"))
		require.Equal(t, http.StatusOK, first.Code)
		calls := s.gateway.Calls

		rec := s.postForm("/subscribe", identityForm("pro", "jane@example.com", "Jane"))

		assert.Equal(t, http.StatusTooManyRequests, rec.Code)
		assert.Contains(t, rec.Header().Get(echo.HeaderContentType), echo.MIMETextHTML)
		body := rec.Body.String()
		assert.Contains(t, body, `id="identity-form"`)
		assert.Contains(t, body, `data-alert="error"`)
		assert.Contains(t, body, "Too many requests")
		assert.Contains(t, body, `value="jane@example.com"`)
		assert.Equal(t, calls, s.gateway.Calls)
	})

	t.Run("form and api share the budget", func(t *testing.T) {
		s := setupServer(t, false, withRateLimit(1))

		assert.Equal(t, http.StatusOK, s.postForm("/subscribe", identityForm("pro", "jane@example.com", "Jane")).Code)
		assert.Equal(t, http.StatusTooManyRequests, s.postJSON("/api/get-or-create-subscription", body).Code)
	})
}

func TestSubscribePage(t *testing.T) {
	s := setupServer(t, true)

	t.Run("resolves plan ignoring case", func(t *testing.T) {
		rec := s.get("/subscribe?plan=BASIC")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `id="identity-form"`)
		assert.Contains(t, rec.Body.String(), `value="basic"`)
	})

	t.Run("defaults to basic", func(t *testing.T) {
		rec := s.get("/subscribe")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `value="basic"`)
	})

	t.Run("unknown plan", func(t *testing.T) {
		rec := s.get("/subscribe?plan=gold")
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Contains(t, rec.Body.String(), `id="plan-not-found"`)
		assert.NotContains(t, rec.Body.String(), `id="identity-form"`)
	})
}

func TestSubscribe_Form(t *testing.T) {
	t.Run("blank field makes no processor call", func(t *testing.T) {
		s := setupServer(t, true)

		rec := s.postForm("/subscribe", identityForm("pro", "jane@example.com", "  "))

		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		assert.Contains(t, rec.Body.String(), model.ErrIdentityRequired.Error())
		assert.Contains(t, rec.Body.String(), `id="identity-form"`)
		assert.Zero(t, s.gateway.Calls)
	})

	t.Run("shows payment form", func(t *testing.T) {
		s := setupServer(t, true)

		rec := s.postForm("/subscribe", identityForm("pro", "jane@example.com", "Jane"))

		assert.Equal(t, http.StatusOK, rec.Code)
		body := rec.Body.String()
		assert.Contains(t, body, `id="payment-form"`)
		assert.Contains(t, body, `data-client-secret="pi_`)
		assert.Contains(t, body, `data-publishable-key="pk_test"`)
		assert.Contains(t, body, "http://localhost:8080/subscribe/complete")
		assert.NotContains(t, body, `id="identity-form"`)
	})

	t.Run("processor error keeps identity form", func(t *testing.T) {
		s := setupServer(t, true)
		s.gateway.CreateErr = &stripe.Error{Msg: "Card declined"}

		rec := s.postForm("/subscribe", identityForm("pro", "jane@example.com", "Jane"))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "Card declined")
		assert.Contains(t, rec.Body.String(), `id="identity-form"`)
	})

	t.Run("demo mode notice", func(t *testing.T) {
		s := setupServer(t, false)

		rec := s.postForm("/subscribe", identityForm("pro", "jane@example.com", "Jane"))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "Demo mode")
		assert.NotContains(t, rec.Body.String(), `id="payment-form"`)
	})
}

func TestSubscribeComplete(t *testing.T) {
	setup := func(t *testing.T) (*server, string) {
		s := setupServer(t, true)
		rec := s.postJSON("/api/get-or-create-subscription", map[string]string{"planName": "pro", "userEmail": "jane@example.com", "userName": "Jane"})
		require.Equal(t, http.StatusOK, rec.Code)

		list, err := s.subs.FindByEmail(context.Background(), "jane@example.com")
		require.NoError(t, err)
		require.Len(t, list, 1)
		return s, list[0].PaymentIntentID
	}

	t.Run("success redirects home", func(t *testing.T) {
		s, pi := setup(t)
		s.gateway.SetPaymentIntent(pi, string(stripe.PaymentIntentStatusSucceeded), "")

		rec := s.get("/subscribe/complete?payment_intent=" + pi)

		assert.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, "/?subscribed=pro", rec.Header().Get(echo.HeaderLocation))

		home := s.get(rec.Header().Get(echo.HeaderLocation))
		assert.Contains(t, home.Body.String(), model.PaymentSuccessMessage)
	})

	t.Run("success without local subscription", func(t *testing.T) {
		s, _ := setup(t)
		s.gateway.SetPaymentIntent("pi_unknown", string(stripe.PaymentIntentStatusSucceeded), "")

		rec := s.get("/subscribe/complete?payment_intent=pi_unknown")

		assert.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, "/?subscribed="+model.DefaultPlanName, rec.Header().Get(echo.HeaderLocation))
	})

	t.Run("declined card shows payment form again", func(t *testing.T) {
		s, pi := setup(t)
		s.gateway.SetPaymentIntent(pi, string(stripe.PaymentIntentStatusRequiresPaymentMethod), "Your card was declined.")
		hook := logtest.NewGlobal()
		defer hook.Reset()

		rec := s.get("/subscribe/complete?payment_intent=" + pi)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "Your card was declined.")
		assert.Contains(t, rec.Body.String(), `id="payment-form"`)
		for _, entry := range hook.AllEntries() {
			assert.NotEqual(t, logrus.ErrorLevel, entry.Level, entry.Message)
		}
	})

	t.Run("processor error", func(t *testing.T) {
		s, pi := setup(t)
		s.gateway.PaymentIntentErr = &stripe.Error{Msg: "boom"}

		rec := s.get("/subscribe/complete?payment_intent=" + pi)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), model.PaymentFailureMessage)
	})

	t.Run("missing intent", func(t *testing.T) {
		s, _ := setup(t)

		rec := s.get("/subscribe/complete")

		assert.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, "/pricing", rec.Header().Get(echo.HeaderLocation))
	})
}

func TestStripeWebhook(t *testing.T) {
	s := setupServer(t, true)
	rec := s.postJSON("/api/get-or-create-subscription", map[string]string{"planName": "pro", "userEmail": "jane@example.com", "userName": "Jane"})
	require.Equal(t, http.StatusOK, rec.Code)

	list, err := s.subs.FindByEmail(context.Background(), "jane@example.com")
	require.NoError(t, err)
	subID := list[0].StripeSubscriptionID

	payload := testutil.WebhookPayload("invoice.payment_succeeded", map[string]interface{}{
		"id":           "in_1",
		"object":       "invoice",
		"subscription": subID,
	})

	send := func(signature string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/stripe/webhook", strings.NewReader(string(payload)))
		req.Header.Set("Stripe-Signature", signature)
		return s.do(req)
	}

	assert.Equal(t, http.StatusBadRequest, send("t=1,v1=forged").Code)
	assert.Equal(t, http.StatusOK, send(testutil.ValidSignature).Code)

	sub, err := s.subs.FindByStripeSubscriptionID(context.Background(), subID)
	require.NoError(t, err)
	assert.Equal(t, model.SubscriptionActive, sub.Status)
	assert.Equal(t, []string{"jane@example.com:pro"}, s.mailer.Sent)
}

func TestStripeWebhook_DemoMode(t *testing.T) {
	s := setupServer(t, false)

	rec := s.postJSON("/api/stripe/webhook", map[string]string{}, "Stripe-Signature", testutil.ValidSignature)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAuth_API(t *testing.T) {
	s := setupServer(t, false)

	rec := s.postJSON("/api/auth/register", map[string]string{"email": "jane@example.com", "name": "Jane", "password": "secret123"})
	require.Equal(t, http.StatusCreated, rec.Code)

	var registered struct {
		Success bool               `json:"success"`
		Data    model.AuthResponse `json:"data"`
	}
	decode(t, rec, &registered)
	assert.True(t, registered.Success)
	assert.NotEmpty(t, registered.Data.Token)
	assert.Empty(t, registered.Data.User.Password)

	dup := s.postJSON("/api/auth/register", map[string]string{"email": "jane@example.com", "name": "Jane", "password": "secret123"})
	assert.Equal(t, http.StatusConflict, dup.Code)

	bad := s.postJSON("/api/auth/login", map[string]string{"email": "jane@example.com", "password": "wrong-password"})
	assert.Equal(t, http.StatusUnauthorized, bad.Code)

	login := s.postJSON("/api/auth/login", map[string]string{"email": "jane@example.com", "password": "secret123"})
	require.Equal(t, http.StatusOK, login.Code)

	req := httptest.NewRequest(http.MethodGet, "/api/subscriptions", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+registered.Data.Token)
	subs := s.do(req)
	assert.Equal(t, http.StatusOK, subs.Code)
	assert.Contains(t, subs.Body.String(), `"success":true`)

	assert.Equal(t, http.StatusUnauthorized, s.get("/api/subscriptions").Code)
}

func TestAuth_PageSessionPrefillsSubscribe(t *testing.T) {
	s := setupServer(t, false)

	rec := s.postForm("/auth/register", url.Values{
		"email":    {"jane@example.com"},
		"name":     {"Jane"},
		"password": {"secret123"},
	})
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/pricing", rec.Header().Get(echo.HeaderLocation))

	var session *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == sessionCookieName {
			session = c
		}
	}
	require.NotNil(t, session)
	assert.True(t, session.HttpOnly)

	page := s.get("/subscribe?plan=pro", session)
	assert.Contains(t, page.Body.String(), `value="jane@example.com"`)

	auth := s.get("/auth", session)
	assert.Contains(t, auth.Body.String(), `id="signed-in"`)

	short := s.postForm("/auth/register", url.Values{"email": {"x@example.com"}, "name": {"X"}, "password": {"short"}})
	assert.Equal(t, http.StatusBadRequest, short.Code)
	assert.Contains(t, short.Body.String(), `id="register-form"`)
}

func TestNotFound(t *testing.T) {
	s := setupServer(t, false)

	page := s.get("/does-not-exist")
	assert.Equal(t, http.StatusNotFound, page.Code)
	assert.Contains(t, page.Header().Get(echo.HeaderContentType), echo.MIMETextHTML)
	assert.Contains(t, page.Body.String(), `id="not-found"`)

	api := s.get("/api/does-not-exist")
	assert.Equal(t, http.StatusNotFound, api.Code)

	var resp errorResponse
	decode(t, api, &resp)
	assert.Equal(t, "Not Found", resp.Message)
}

func TestPages(t *testing.T) {
	s := setupServer(t, false)

	for _, path := range []string{"/", "/pricing", "/campaigns", "/workflow", "/analysis/abc123", "/static/css/site.css"} {
		t.Run(path, func(t *testing.T) {
			assert.Equal(t, http.StatusOK, s.get(path).Code)
		})
	}

	assert.Contains(t, s.get("/analysis/abc123").Body.String(), "abc123")
	assert.Contains(t, s.get("/pricing").Body.String(), `data-plan="pro"`)
}
