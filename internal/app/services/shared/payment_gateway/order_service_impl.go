package payment_gateway

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"medibook-service/internal/app/config"
	"medibook-service/internal/app/contracts"
	"medibook-service/internal/pkg/constvars"
	"medibook-service/internal/pkg/dto/requests"
	"medibook-service/internal/pkg/dto/responses"
	"medibook-service/internal/pkg/exceptions"
	"net/http"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

var (
	orderServiceInstance contracts.OrderGatewayService
	onceOrderService     sync.Once
)

type orderService struct {
	BaseUrl    string
	KeyID      string
	KeySecret  string
	httpClient *http.Client
	limiter    *rate.Limiter
	Log        *zap.Logger
}

type gatewayOrderPayload struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
}

type gatewayOrderResource struct {
	ID        string `json:"id"`
	Amount    int64  `json:"amount"`
	Currency  string `json:"currency"`
	Receipt   string `json:"receipt"`
	Status    string `json:"status"`
	CreatedAt int64  `json:"created_at"`
}

func NewOrderService(internalConfig *config.InternalConfig, logger *zap.Logger) contracts.OrderGatewayService {
	onceOrderService.Do(func() {
		instance := &orderService{
			BaseUrl:   internalConfig.OrderGateway.BaseUrl,
			KeyID:     internalConfig.OrderGateway.KeyID,
			KeySecret: internalConfig.OrderGateway.KeySecret,
			httpClient: &http.Client{
				Timeout: time.Duration(internalConfig.OrderGateway.RequestTimeoutInSecs) * time.Second,
			},
			limiter: rate.NewLimiter(rate.Limit(internalConfig.OrderGateway.RequestsPerSecond), internalConfig.OrderGateway.RequestsPerSecond),
			Log:     logger,
		}
		orderServiceInstance = instance
	})
	return orderServiceInstance
}

func (s *orderService) CreateOrder(ctx context.Context, request *requests.GatewayOrderRequest) (*responses.GatewayOrder, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	s.Log.Info("orderService.CreateOrder called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.Int64("amount", request.Amount),
	)

	if err := s.limiter.Wait(ctx); err != nil {
		return nil, exceptions.ErrGatewayCreateOrder(err)
	}

	body, err := json.Marshal(gatewayOrderPayload{
		Amount:   request.Amount,
		Currency: request.Currency,
		Receipt:  request.Receipt,
	})
	if err != nil {
		return nil, exceptions.ErrCannotMarshalJSON(err)
	}

	httpRequest, err := http.NewRequestWithContext(ctx, constvars.MethodPost, s.BaseUrl+"/orders", bytes.NewReader(body))
	if err != nil {
		return nil, exceptions.ErrGatewayCreateOrder(err)
	}
	httpRequest.SetBasicAuth(s.KeyID, s.KeySecret)
	httpRequest.Header.Set(constvars.HeaderContentType, constvars.MIMEApplicationJSON)
	if request.IdempotencyKey != "" {
		httpRequest.Header.Set("X-Idempotency-Key", request.IdempotencyKey)
	}

	httpResponse, err := s.httpClient.Do(httpRequest)
	if err != nil {
		s.Log.Error("orderService.CreateOrder error calling provider",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, exceptions.ErrGatewayCreateOrder(err)
	}
	defer httpResponse.Body.Close()

	if httpResponse.StatusCode != constvars.StatusOK && httpResponse.StatusCode != constvars.StatusCreated {
		err := fmt.Errorf("provider returned status %d", httpResponse.StatusCode)
		s.Log.Error("orderService.CreateOrder unexpected provider status",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Int(constvars.LoggingStatusCodeKey, httpResponse.StatusCode),
		)
		return nil, exceptions.ErrGatewayCreateOrder(err)
	}

	var resource gatewayOrderResource
	if err := json.NewDecoder(httpResponse.Body).Decode(&resource); err != nil {
		return nil, exceptions.ErrGatewayCreateOrder(err)
	}

	s.Log.Info("orderService.CreateOrder succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingOrderIDKey, resource.ID),
	)
	return s.buildOrderResponse(&resource), nil
}

func (s *orderService) FetchOrder(ctx context.Context, orderID string) (*responses.GatewayOrder, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	s.Log.Info("orderService.FetchOrder called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingOrderIDKey, orderID),
	)

	if err := s.limiter.Wait(ctx); err != nil {
		return nil, exceptions.ErrGatewayFetchOrder(err)
	}

	httpRequest, err := http.NewRequestWithContext(ctx, constvars.MethodGet, s.BaseUrl+"/orders/"+orderID, nil)
	if err != nil {
		return nil, exceptions.ErrGatewayFetchOrder(err)
	}
	httpRequest.SetBasicAuth(s.KeyID, s.KeySecret)

	httpResponse, err := s.httpClient.Do(httpRequest)
	if err != nil {
		s.Log.Error("orderService.FetchOrder error calling provider",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, exceptions.ErrGatewayFetchOrder(err)
	}
	defer httpResponse.Body.Close()

	if httpResponse.StatusCode != constvars.StatusOK {
		err := fmt.Errorf("provider returned status %d", httpResponse.StatusCode)
		return nil, exceptions.ErrGatewayFetchOrder(err)
	}

	var resource gatewayOrderResource
	if err := json.NewDecoder(httpResponse.Body).Decode(&resource); err != nil {
		return nil, exceptions.ErrGatewayFetchOrder(err)
	}

	return s.buildOrderResponse(&resource), nil
}

func (s *orderService) VerifySignature(orderID, paymentID, signature string) bool {
	mac := hmac.New(sha256.New, []byte(s.KeySecret))
	mac.Write([]byte(orderID + "|" + paymentID))
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}

func (s *orderService) buildOrderResponse(resource *gatewayOrderResource) *responses.GatewayOrder {
	return &responses.GatewayOrder{
		ID:        resource.ID,
		Amount:    resource.Amount,
		Currency:  resource.Currency,
		Receipt:   resource.Receipt,
		Status:    constvars.OrderStatus(resource.Status),
		CreatedAt: time.Unix(resource.CreatedAt, 0),
	}
}
