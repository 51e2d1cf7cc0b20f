package stripe

import (
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"fanlink-backend/config"
	"fanlink-backend/services"
	"fanlink-backend/testutils"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestMain(m *testing.M) {
	testutils.InitTestMain()

	log.SetOutput(io.Discard)

	exitCode := m.Run()

	log.SetOutput(os.Stdout)

	os.Exit(exitCode)
}

func newHandler(gormDB *gorm.DB, cfg config.Settings) *Handler {
	identity := services.NewIdentityService(gormDB)
	creators := services.NewCreatorService(gormDB)
	subscriptions := services.NewSubscriptionService(gormDB)
	return New(cfg, identity, creators, subscriptions)
}

func TestHandleWebhook_MissingSecret(t *testing.T) {
	gormDB, _, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	r := testutils.SetupTestRouter()
	r.POST("/webhooks/stripe", newHandler(gormDB, config.Settings{}).HandleWebhook)

	req, _ := http.NewRequest(http.MethodPost, "/webhooks/stripe", strings.NewReader(`{}`))
	resp := httptest.NewRecorder()

	r.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusInternalServerError, resp.Code)
}

func TestHandleWebhook_InvalidSignature(t *testing.T) {
	gormDB, _, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	cfg := config.Settings{StripeWebhookSecret: "whsec_test_secret"}
	r := testutils.SetupTestRouter()
	r.POST("/webhooks/stripe", newHandler(gormDB, cfg).HandleWebhook)

	req, _ := http.NewRequest(http.MethodPost, "/webhooks/stripe", strings.NewReader(`{"type":"checkout.session.completed"}`))
	req.Header.Set("Stripe-Signature", "t=123,v1=bogus")
	resp := httptest.NewRecorder()

	r.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestInvoiceSubscriptionID(t *testing.T) {
	nested := map[string]interface{}{
		"parent": map[string]interface{}{
			"subscription_details": map[string]interface{}{
				"subscription": "sub_nested",
			},
		},
	}
	assert.Equal(t, "sub_nested", invoiceSubscriptionID(nested))

	flat := map[string]interface{}{"subscription": "sub_flat"}
	assert.Equal(t, "sub_flat", invoiceSubscriptionID(flat))

	assert.Equal(t, "", invoiceSubscriptionID(map[string]interface{}{}))
}

func TestSubscriptionPayloadPeriodBounds(t *testing.T) {
	p := subscriptionPayload{CurrentPeriodStart: 1700000000, CurrentPeriodEnd: 1702592000}
	start, end := p.periodBounds()
	assert.Equal(t, int64(1700000000), start.Unix())
	assert.NotNil(t, end)
	assert.Equal(t, int64(1702592000), end.Unix())

	empty := subscriptionPayload{}
	start, end = empty.periodBounds()
	assert.False(t, start.IsZero())
	assert.Nil(t, end)
}
