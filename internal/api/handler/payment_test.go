package handler

import (
	"fmt"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v76"
	"gorm.io/gorm"

	"github.com/inkwell-ai/inkwell-server/config"
	"github.com/inkwell-ai/inkwell-server/internal/model/dto"
	"github.com/inkwell-ai/inkwell-server/internal/pkg/response"
	"github.com/inkwell-ai/inkwell-server/internal/repository"
	"github.com/inkwell-ai/inkwell-server/internal/service"
	"github.com/inkwell-ai/inkwell-server/internal/testutil"
)

type stubGateway struct {
	intents map[string]*stripe.PaymentIntent
	seq     int
}

func newStubGateway() *stubGateway {
	return &stubGateway{intents: make(map[string]*stripe.PaymentIntent)}
}

func (g *stubGateway) CreateIntent(amountCents int64, currency string, metadata map[string]string) (*stripe.PaymentIntent, error) {
	g.seq++
	intent := &stripe.PaymentIntent{
		ID:           fmt.Sprintf("pi_stub_%d", g.seq),
		ClientSecret: fmt.Sprintf("pi_stub_%d_secret", g.seq),
		Amount:       amountCents,
		Status:       stripe.PaymentIntentStatusSucceeded,
		Metadata:     metadata,
	}
	g.intents[intent.ID] = intent
	return intent, nil
}

func (g *stubGateway) GetIntent(id string) (*stripe.PaymentIntent, error) {
	intent, ok := g.intents[id]
	if !ok {
		return nil, fmt.Errorf("no such intent: %s", id)
	}
	return intent, nil
}

func setupPaymentHandler(t *testing.T) (*PaymentHandler, *gorm.DB) {
	t.Helper()

	db := testutil.SetupTestDB(t)
	t.Cleanup(func() { testutil.CleanupTestDB(t, db) })

	cfg := &config.Config{
		Stripe: config.StripeConfig{Currency: "cny"},
		Plans: []config.PlanConfig{
			{ID: "pro", Name: "专业版", PriceCents: 9900, MonthlyCredits: 2000},
		},
		Packs: []config.PackConfig{
			{ID: "pack_small", Name: "小积分包", Credits: 300, PriceCents: 1900},
		},
	}

	paymentService := service.NewPaymentService(
		newStubGateway(),
		repository.NewUserRepository(db),
		repository.NewCreditRepository(db),
		repository.NewSettingsRepository(db),
		nil,
		cfg,
	)
	return NewPaymentHandler(paymentService), db
}

func TestPaymentHandler_ListPlans_Public(t *testing.T) {
	handler, _ := setupPaymentHandler(t)

	router := gin.New()
	router.GET("/payment/plans", handler.ListPlans)

	w := performRequest(router, "GET", "/payment/plans", nil)
	resp := parseResponse(t, w)

	assert.Equal(t, response.CodeSuccess, resp.Code)
	data, ok := resp.Data.(map[string]interface{})
	require.True(t, ok)
	plans, ok := data["plans"].([]interface{})
	require.True(t, ok)
	require.Len(t, plans, 1)

	plan := plans[0].(map[string]interface{})
	assert.Equal(t, "pro", plan["id"])
	assert.Equal(t, true, plan["popular"])
}

func TestPaymentHandler_FullPurchaseFlow(t *testing.T) {
	handler, db := setupPaymentHandler(t)

	user := testutil.TestUser(t, db, testutil.WithCredits(0))

	router := gin.New()
	router.Use(mockAuth(user.ID))
	router.POST("/payment/buy-credits", handler.BuyCredits)
	router.POST("/payment/process", handler.ProcessPayment)
	router.GET("/payment/subscription", handler.GetSubscription)

	w := performRequest(router, "POST", "/payment/buy-credits", dto.BuyCreditsRequest{PackID: "pack_small"})
	resp := parseResponse(t, w)
	require.Equal(t, response.CodeSuccess, resp.Code)

	data := resp.Data.(map[string]interface{})
	intentID := data["payment_intent_id"].(string)
	require.NotEmpty(t, intentID)

	w = performRequest(router, "POST", "/payment/process", dto.ProcessPaymentRequest{PaymentIntentID: intentID})
	resp = parseResponse(t, w)
	require.Equal(t, response.CodeSuccess, resp.Code)

	data = resp.Data.(map[string]interface{})
	assert.Equal(t, float64(300), data["credits_granted"])
	assert.Equal(t, float64(300), data["credits"])

	// 重复确认返回重复操作
	w = performRequest(router, "POST", "/payment/process", dto.ProcessPaymentRequest{PaymentIntentID: intentID})
	resp = parseResponse(t, w)
	assert.Equal(t, response.CodeDuplicateAction, resp.Code)
}

func TestPaymentHandler_CreateIntent_UnknownPlan(t *testing.T) {
	handler, db := setupPaymentHandler(t)

	user := testutil.TestUser(t, db)

	router := gin.New()
	router.Use(mockAuth(user.ID))
	router.POST("/payment/create-intent", handler.CreateIntent)

	w := performRequest(router, "POST", "/payment/create-intent", dto.CreateIntentRequest{PlanID: "ghost"})
	resp := parseResponse(t, w)

	assert.Equal(t, response.CodeResourceNotFound, resp.Code)
}

func TestPaymentHandler_GetSubscription_NoPlan(t *testing.T) {
	handler, db := setupPaymentHandler(t)

	user := testutil.TestUser(t, db)

	router := gin.New()
	router.Use(mockAuth(user.ID))
	router.GET("/payment/subscription", handler.GetSubscription)

	w := performRequest(router, "GET", "/payment/subscription", nil)
	resp := parseResponse(t, w)

	assert.Equal(t, response.CodeSuccess, resp.Code)
	data := resp.Data.(map[string]interface{})
	assert.Equal(t, false, data["active"])
}
