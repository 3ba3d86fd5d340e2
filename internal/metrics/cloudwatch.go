package metrics

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	cwtypes "github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"

	"futuresbot/config"
	"futuresbot/logger"
)

const (
	cloudWatchPublishTimeout = 5 * time.Second
	cloudWatchFlushInterval  = 10 * time.Second
	cloudWatchQueueSize      = 256
	cloudWatchBatchSize      = 20
)

type putMetricDataAPI interface {
	PutMetricData(ctx context.Context, params *cloudwatch.PutMetricDataInput, optFns ...func(*cloudwatch.Options)) (*cloudwatch.PutMetricDataOutput, error)
}

// CloudWatchPublisher forwards numeric metrics to CloudWatch. Metrics are
// queued by the handler and published in batches from a background
// goroutine; when the queue is full new metrics are dropped.
type CloudWatchPublisher struct {
	client    putMetricDataAPI
	namespace string
	log       *logger.Log
	handlerID MetricHandlerID

	queue   chan cwtypes.MetricDatum
	done    chan struct{}
	stopped chan struct{}
	once    sync.Once
	dropped atomic.Int64
}

// NewCloudWatchPublisher loads the default AWS configuration chain and starts
// publishing. It returns nil, nil when CloudWatch is disabled.
func NewCloudWatchPublisher(ctx context.Context, cfg config.CloudWatchConfig, log *logger.Log) (*CloudWatchPublisher, error) {
	if !cfg.Enabled {
		return nil, nil
	}

	opts := []func(*awsconfig.LoadOptions) error{}
	if cfg.Region != "" {
		opts = append(opts, awsconfig.WithRegion(cfg.Region))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS configuration: %w", err)
	}

	p := newCloudWatchPublisher(cloudwatch.NewFromConfig(awsCfg), cfg.Namespace, log)

	log.WithComponent("cloudwatch").WithFields(logger.Fields{
		"region":    awsCfg.Region,
		"namespace": cfg.Namespace,
	}).Info("initialized CloudWatch client")

	return p, nil
}

func newCloudWatchPublisher(client putMetricDataAPI, namespace string, log *logger.Log) *CloudWatchPublisher {
	p := &CloudWatchPublisher{
		client:    client,
		namespace: namespace,
		log:       log,
		queue:     make(chan cwtypes.MetricDatum, cloudWatchQueueSize),
		done:      make(chan struct{}),
		stopped:   make(chan struct{}),
	}
	go p.run(cloudWatchFlushInterval)
	p.handlerID = RegisterMetricHandler(p.handle)
	return p
}

// Close stops receiving metrics, publishes what is still queued and waits
// for the background goroutine to exit.
func (p *CloudWatchPublisher) Close() {
	if p == nil {
		return
	}
	p.once.Do(func() {
		UnregisterMetricHandler(p.handlerID)
		close(p.done)
		<-p.stopped
		if n := p.dropped.Load(); n > 0 && p.log != nil {
			p.log.WithComponent("cloudwatch").WithFields(logger.Fields{"dropped": n}).Warn("CloudWatch queue was full, metrics dropped")
		}
	})
}

// Dropped reports how many metrics were discarded because the queue was full.
func (p *CloudWatchPublisher) Dropped() int64 {
	return p.dropped.Load()
}

func (p *CloudWatchPublisher) handle(metric Metric) {
	datum, ok := toMetricDatum(metric)
	if !ok {
		return
	}
	select {
	case p.queue <- datum:
	default:
		p.dropped.Add(1)
	}
}

func (p *CloudWatchPublisher) run(interval time.Duration) {
	defer close(p.stopped)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	batch := make([]cwtypes.MetricDatum, 0, cloudWatchBatchSize)
	flush := func() {
		if len(batch) == 0 {
			return
		}
		p.publish(batch)
		batch = make([]cwtypes.MetricDatum, 0, cloudWatchBatchSize)
	}

	for {
		select {
		case datum := <-p.queue:
			batch = append(batch, datum)
			if len(batch) >= cloudWatchBatchSize {
				flush()
			}
		case <-ticker.C:
			flush()
		case <-p.done:
			for {
				select {
				case datum := <-p.queue:
					batch = append(batch, datum)
					if len(batch) >= cloudWatchBatchSize {
						flush()
					}
				default:
					flush()
					return
				}
			}
		}
	}
}

func (p *CloudWatchPublisher) publish(data []cwtypes.MetricDatum) {
	ctx, cancel := context.WithTimeout(context.Background(), cloudWatchPublishTimeout)
	defer cancel()

	_, err := p.client.PutMetricData(ctx, &cloudwatch.PutMetricDataInput{
		Namespace:  aws.String(p.namespace),
		MetricData: data,
	})
	if err != nil && p.log != nil {
		p.log.WithComponent("cloudwatch").WithError(err).WithFields(logger.Fields{
			"count": len(data),
		}).Warn("failed to publish CloudWatch metrics")
	}
}

func toMetricDatum(metric Metric) (cwtypes.MetricDatum, bool) {
	value, ok := toFloat64(metric.Value)
	if !ok {
		return cwtypes.MetricDatum{}, false
	}

	unit := cwtypes.StandardUnitCount
	if rawUnit, ok := metric.Fields["unit"].(string); ok {
		if parsed, found := metricUnitFromString(rawUnit); found {
			unit = parsed
		}
	}

	dims := []cwtypes.Dimension{{Name: aws.String("component"), Value: aws.String(metric.Component)}}
	for k, v := range metric.Fields {
		if k == "unit" {
			continue
		}
		if s, ok := v.(string); ok && s != "" {
			dims = append(dims, cwtypes.Dimension{Name: aws.String(k), Value: aws.String(s)})
		}
	}

	return cwtypes.MetricDatum{
		MetricName: aws.String(metric.Name),
		Dimensions: dims,
		Timestamp:  aws.Time(metric.Timestamp),
		Unit:       unit,
		Value:      aws.Float64(value),
	}, true
}

func toFloat64(value interface{}) (float64, bool) {
	switch v := value.(type) {
	case int:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	case float32:
		return float64(v), true
	case float64:
		return v, true
	default:
		return 0, false
	}
}

func metricUnitFromString(unit string) (cwtypes.StandardUnit, bool) {
	switch strings.ToLower(unit) {
	case "count":
		return cwtypes.StandardUnitCount, true
	case "percent":
		return cwtypes.StandardUnitPercent, true
	case "milliseconds":
		return cwtypes.StandardUnitMilliseconds, true
	default:
		return cwtypes.StandardUnitCount, false
	}
}
