package exchange

import (
	"context"
	"fmt"
	"net/http"
	"time"

	futures "github.com/adshao/go-binance/v2/futures"
	"golang.org/x/time/rate"

	"futuresbot/config"
	"futuresbot/logger"
)

// OrderRequest carries the fields forwarded to the create-order endpoint.
// Empty optional fields are not sent.
type OrderRequest struct {
	Symbol        string
	Side          futures.SideType
	Type          futures.OrderType
	TimeInForce   futures.TimeInForceType
	Quantity      string
	Price         string
	StopPrice     string
	WorkingType   futures.WorkingType
	ClientOrderID string
}

// Client talks to the Binance USDⓈ-M futures REST API through go-binance.
// It is safe for sequential use after construction; it holds no mutable
// state besides the optional pacing limiter.
type Client struct {
	client   *futures.Client
	limiter  *rate.Limiter
	log      *logger.Log
	endpoint string
}

// NewClient builds a signed futures client. Missing credentials are passed
// through unchanged; signed calls will then fail remotely.
func NewClient(cfg config.ExchangeConfig, creds config.Credentials, log *logger.Log) *Client {
	transport := &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		MaxIdleConns:        cfg.ConnectionPool.MaxIdleConns,
		MaxIdleConnsPerHost: cfg.ConnectionPool.MaxIdleConns,
		MaxConnsPerHost:     cfg.ConnectionPool.MaxConnsPerHost,
		IdleConnTimeout:     cfg.ConnectionPool.IdleConnTimeout,
	}

	endpoint := cfg.Endpoint()

	client := futures.NewClient(creds.APIKey, creds.APISecret)
	client.BaseURL = endpoint
	client.HTTPClient = &http.Client{
		Transport: &weightTransport{base: transport, log: log},
	}

	c := &Client{
		client:   client,
		log:      log,
		endpoint: endpoint,
	}
	if cfg.RequestsPerSecond > 0 {
		burst := int(cfg.RequestsPerSecond)
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), burst)
	}

	testnet := cfg.Testnet && cfg.BaseURL == ""
	log.WithComponent("exchange").WithFields(logger.Fields{
		"endpoint":           endpoint,
		"max_idle_conns":     cfg.ConnectionPool.MaxIdleConns,
		"max_conns_per_host": cfg.ConnectionPool.MaxConnsPerHost,
		"requests_per_sec":   cfg.RequestsPerSecond,
	}).Infof("Futures Bot initialized with Testnet: %t", testnet)

	return c
}

// Endpoint reports the REST base URL in use.
func (c *Client) Endpoint() string {
	return c.endpoint
}

func (c *Client) wait(ctx context.Context) error {
	if c.limiter == nil {
		return nil
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("request pacing: %w", err)
	}
	return nil
}

// Balances returns the per-asset futures wallet balances.
func (c *Client) Balances(ctx context.Context) ([]*futures.Balance, error) {
	if err := c.wait(ctx); err != nil {
		return nil, err
	}
	return c.client.NewGetBalanceService().Do(ctx)
}

// ExchangeInfo returns the instrument list and exchange rules.
func (c *Client) ExchangeInfo(ctx context.Context) (*futures.ExchangeInfo, error) {
	if err := c.wait(ctx); err != nil {
		return nil, err
	}
	return c.client.NewExchangeInfoService().Do(ctx)
}

// CreateOrder submits a new order.
func (c *Client) CreateOrder(ctx context.Context, req OrderRequest) (*futures.CreateOrderResponse, error) {
	if err := c.wait(ctx); err != nil {
		return nil, err
	}

	svc := c.client.NewCreateOrderService().
		Symbol(req.Symbol).
		Side(req.Side).
		Type(req.Type).
		Quantity(req.Quantity)
	if req.TimeInForce != "" {
		svc = svc.TimeInForce(req.TimeInForce)
	}
	if req.Price != "" {
		svc = svc.Price(req.Price)
	}
	if req.StopPrice != "" {
		svc = svc.StopPrice(req.StopPrice)
	}
	if req.WorkingType != "" {
		svc = svc.WorkingType(req.WorkingType)
	}
	if req.ClientOrderID != "" {
		svc = svc.NewClientOrderID(req.ClientOrderID)
	}
	return svc.Do(ctx)
}

// Order fetches a single order by exchange id.
func (c *Client) Order(ctx context.Context, symbol string, orderID int64) (*futures.Order, error) {
	if err := c.wait(ctx); err != nil {
		return nil, err
	}
	return c.client.NewGetOrderService().Symbol(symbol).OrderID(orderID).Do(ctx)
}

// Positions returns position risk records for every symbol.
func (c *Client) Positions(ctx context.Context) ([]*futures.PositionRisk, error) {
	if err := c.wait(ctx); err != nil {
		return nil, err
	}
	return c.client.NewGetPositionRiskService().Do(ctx)
}

// weightTransport reports Binance request-weight headers for every response.
type weightTransport struct {
	base http.RoundTripper
	log  *logger.Log
}

func (t *weightTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	start := time.Now()
	resp, err := t.base.RoundTrip(req)
	if err != nil {
		return nil, err
	}
	reportResponse(t.log, req, resp, time.Since(start))
	return resp, nil
}
