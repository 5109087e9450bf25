package payment_gateway

import (
	"context"
	"fmt"
	"medibook-service/internal/app/config"
	"medibook-service/internal/app/contracts"
	"medibook-service/internal/pkg/constvars"
	"medibook-service/internal/pkg/dto/requests"
	"medibook-service/internal/pkg/dto/responses"
	"medibook-service/internal/pkg/exceptions"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

var (
	checkoutServiceInstance contracts.CheckoutGatewayService
	onceCheckoutService     sync.Once
)

// checkoutSessionKeyPrefix maps an appointment id to the provider session id
// so the confirm endpoint can re-fetch the session server side.
const (
	checkoutSessionKeyPrefix = "checkout:session:"
	checkoutSessionKeyTTL    = 24 * time.Hour
)

type checkoutService struct {
	BaseUrl    string
	SecretKey  string
	httpClient *http.Client
	limiter    *rate.Limiter
	redisRepo  contracts.RedisRepository
	Log        *zap.Logger
}

type checkoutSessionResource struct {
	ID                string `json:"id"`
	URL               string `json:"url"`
	Status            string `json:"status"`
	PaymentStatus     string `json:"payment_status"`
	ClientReferenceID string `json:"client_reference_id"`
}

func NewCheckoutService(internalConfig *config.InternalConfig, redisRepo contracts.RedisRepository, logger *zap.Logger) contracts.CheckoutGatewayService {
	onceCheckoutService.Do(func() {
		instance := &checkoutService{
			BaseUrl:   internalConfig.CheckoutGateway.BaseUrl,
			SecretKey: internalConfig.CheckoutGateway.SecretKey,
			httpClient: &http.Client{
				Timeout: time.Duration(internalConfig.CheckoutGateway.RequestTimeoutInSecs) * time.Second,
			},
			limiter:   rate.NewLimiter(rate.Limit(internalConfig.CheckoutGateway.RequestsPerSecond), internalConfig.CheckoutGateway.RequestsPerSecond),
			redisRepo: redisRepo,
			Log:       logger,
		}
		checkoutServiceInstance = instance
	})
	return checkoutServiceInstance
}

func (s *checkoutService) CreateSession(ctx context.Context, request *requests.CheckoutSessionRequest) (*responses.CheckoutSession, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	s.Log.Info("checkoutService.CreateSession called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingAppointmentIDKey, request.AppointmentID),
	)

	if err := s.limiter.Wait(ctx); err != nil {
		return nil, exceptions.ErrGatewayCreateSession(err)
	}

	form := url.Values{}
	form.Set("mode", "payment")
	form.Set("client_reference_id", request.AppointmentID)
	form.Set("success_url", request.SuccessURL)
	form.Set("cancel_url", request.CancelURL)
	form.Set("line_items[0][quantity]", "1")
	form.Set("line_items[0][price_data][currency]", request.Currency)
	form.Set("line_items[0][price_data][unit_amount]", strconv.FormatInt(request.Amount, 10))
	form.Set("line_items[0][price_data][product_data][name]", request.ProductName)
	if request.Description != "" {
		form.Set("line_items[0][price_data][product_data][description]", request.Description)
	}

	httpRequest, err := http.NewRequestWithContext(ctx, constvars.MethodPost, s.BaseUrl+"/checkout/sessions", strings.NewReader(form.Encode()))
	if err != nil {
		return nil, exceptions.ErrGatewayCreateSession(err)
	}
	httpRequest.Header.Set("Authorization", "Bearer "+s.SecretKey)
	httpRequest.Header.Set(constvars.HeaderContentType, "application/x-www-form-urlencoded")

	httpResponse, err := s.httpClient.Do(httpRequest)
	if err != nil {
		s.Log.Error("checkoutService.CreateSession error calling provider",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, exceptions.ErrGatewayCreateSession(err)
	}
	defer httpResponse.Body.Close()

	if httpResponse.StatusCode != constvars.StatusOK {
		err := fmt.Errorf("provider returned status %d", httpResponse.StatusCode)
		s.Log.Error("checkoutService.CreateSession unexpected provider status",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Int(constvars.LoggingStatusCodeKey, httpResponse.StatusCode),
		)
		return nil, exceptions.ErrGatewayCreateSession(err)
	}

	var resource checkoutSessionResource
	if err := json.NewDecoder(httpResponse.Body).Decode(&resource); err != nil {
		return nil, exceptions.ErrGatewayCreateSession(err)
	}

	err = s.redisRepo.Set(ctx, checkoutSessionKeyPrefix+request.AppointmentID, resource.ID, checkoutSessionKeyTTL)
	if err != nil {
		return nil, err
	}

	s.Log.Info("checkoutService.CreateSession succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingSessionIDKey, resource.ID),
	)
	return s.buildSessionResponse(&resource), nil
}

func (s *checkoutService) FetchSession(ctx context.Context, appointmentID string) (*responses.CheckoutSession, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	s.Log.Info("checkoutService.FetchSession called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingAppointmentIDKey, appointmentID),
	)

	stored, err := s.redisRepo.Get(ctx, checkoutSessionKeyPrefix+appointmentID)
	if err != nil {
		return nil, err
	}
	if stored == "" {
		err := fmt.Errorf("no checkout session recorded for appointment %s", appointmentID)
		return nil, exceptions.ErrGatewayFetchSession(err)
	}

	var sessionID string
	if err := json.Unmarshal([]byte(stored), &sessionID); err != nil {
		return nil, exceptions.ErrGatewayFetchSession(err)
	}

	if err := s.limiter.Wait(ctx); err != nil {
		return nil, exceptions.ErrGatewayFetchSession(err)
	}

	httpRequest, err := http.NewRequestWithContext(ctx, constvars.MethodGet, s.BaseUrl+"/checkout/sessions/"+sessionID, nil)
	if err != nil {
		return nil, exceptions.ErrGatewayFetchSession(err)
	}
	httpRequest.Header.Set("Authorization", "Bearer "+s.SecretKey)

	httpResponse, err := s.httpClient.Do(httpRequest)
	if err != nil {
		s.Log.Error("checkoutService.FetchSession error calling provider",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, exceptions.ErrGatewayFetchSession(err)
	}
	defer httpResponse.Body.Close()

	if httpResponse.StatusCode != constvars.StatusOK {
		err := fmt.Errorf("provider returned status %d", httpResponse.StatusCode)
		return nil, exceptions.ErrGatewayFetchSession(err)
	}

	var resource checkoutSessionResource
	if err := json.NewDecoder(httpResponse.Body).Decode(&resource); err != nil {
		return nil, exceptions.ErrGatewayFetchSession(err)
	}

	return s.buildSessionResponse(&resource), nil
}

func (s *checkoutService) buildSessionResponse(resource *checkoutSessionResource) *responses.CheckoutSession {
	return &responses.CheckoutSession{
		ID:            resource.ID,
		URL:           resource.URL,
		AppointmentID: resource.ClientReferenceID,
		Status:        constvars.CheckoutSessionStatus(resource.Status),
		PaymentStatus: resource.PaymentStatus,
	}
}
