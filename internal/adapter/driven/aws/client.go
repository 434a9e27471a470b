package aws

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/aws/retry"
	awshttp "github.com/aws/aws-sdk-go-v2/aws/transport/http"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/budgets"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	"github.com/aws/aws-sdk-go-v2/service/costexplorer"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	"github.com/aws/aws-sdk-go-v2/service/rds"
	"github.com/aws/aws-sdk-go-v2/service/sts"

	"github.com/diillson/cloud-insights-reports/internal/domain/entity"
)

// globalRegion hospeda as APIs globais (Cost Explorer, Budgets, STS).
const globalRegion = "us-east-1"

// Options controla timeouts, retries e o fan-out do adaptador AWS.
type Options struct {
	FallbackRegions []string
	ConnectTimeout  time.Duration
	ReadTimeout     time.Duration
	MetricTimeout   time.Duration
	MaxAttempts     int
	Concurrency     int
}

func (o Options) withDefaults() Options {
	if len(o.FallbackRegions) == 0 {
		o.FallbackRegions = []string{"us-east-1", "us-east-2", "us-west-1", "us-west-2", "eu-west-1", "eu-central-1", "ap-south-1"}
	}
	if o.ConnectTimeout <= 0 {
		o.ConnectTimeout = 5 * time.Second
	}
	if o.ReadTimeout <= 0 {
		o.ReadTimeout = 10 * time.Second
	}
	if o.MetricTimeout <= 0 {
		o.MetricTimeout = 15 * time.Second
	}
	if o.MaxAttempts <= 0 {
		o.MaxAttempts = 2
	}
	if o.Concurrency <= 0 {
		o.Concurrency = 8
	}
	return o
}

// LoadConfig builds an aws.Config from static credentials with tightened
// connect/read timeouts and a bounded standard retryer.
func LoadConfig(ctx context.Context, creds entity.Credentials, opts Options) (aws.Config, error) {
	opts = opts.withDefaults()
	if err := creds.Validate(); err != nil {
		return aws.Config{}, err
	}
	region := creds.Region
	if region == "" {
		region = entity.DefaultRegion
	}

	httpClient := awshttp.NewBuildableClient().
		WithTimeout(opts.ConnectTimeout + opts.ReadTimeout).
		WithDialerOptions(func(d *net.Dialer) {
			d.Timeout = opts.ConnectTimeout
		}).
		WithTransportOptions(func(tr *http.Transport) {
			tr.ResponseHeaderTimeout = opts.ReadTimeout
		})

	cfg, err := config.LoadDefaultConfig(ctx,
		config.WithRegion(region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(creds.AccessKey, creds.SecretKey, creds.SessionToken)),
		config.WithHTTPClient(httpClient),
		config.WithRetryer(func() aws.Retryer {
			return retry.NewStandard(func(o *retry.StandardOptions) {
				o.MaxAttempts = opts.MaxAttempts
			})
		}),
	)
	if err != nil {
		return aws.Config{}, fmt.Errorf("failed to load AWS config: %w", err)
	}
	return cfg, nil
}

// sdkClients implementa Clients com cache de clientes por serviço e região.
type sdkClients struct {
	cfg         aws.Config
	clientCache map[string]interface{}
	mu          sync.Mutex
}

// NewClients creates the client set of one request.
func NewClients(cfg aws.Config) Clients {
	return &sdkClients{
		cfg:         cfg,
		clientCache: make(map[string]interface{}),
	}
}

func (c *sdkClients) getServiceClient(region, service string) interface{} {
	switch service {
	case "costexplorer", "budgets", "sts":
		region = globalRegion
	}
	if region == "" {
		region = c.cfg.Region
	}
	cacheKey := fmt.Sprintf("%s-%s", region, service)

	c.mu.Lock()
	defer c.mu.Unlock()
	if client, ok := c.clientCache[cacheKey]; ok {
		return client
	}

	regionalCfg := c.cfg.Copy()
	regionalCfg.Region = region

	var client interface{}
	switch service {
	case "ec2":
		client = ec2.NewFromConfig(regionalCfg)
	case "rds":
		client = rds.NewFromConfig(regionalCfg)
	case "cloudwatch":
		client = cloudwatch.NewFromConfig(regionalCfg)
	case "costexplorer":
		client = costexplorer.NewFromConfig(regionalCfg)
	case "budgets":
		client = budgets.NewFromConfig(regionalCfg)
	case "sts":
		client = sts.NewFromConfig(regionalCfg)
	default:
		panic("unsupported service: " + service)
	}
	c.clientCache[cacheKey] = client
	return client
}

func (c *sdkClients) EC2(region string) EC2API {
	return c.getServiceClient(region, "ec2").(*ec2.Client)
}

func (c *sdkClients) RDS(region string) RDSAPI {
	return c.getServiceClient(region, "rds").(*rds.Client)
}

func (c *sdkClients) CloudWatch(region string) CloudWatchAPI {
	return c.getServiceClient(region, "cloudwatch").(*cloudwatch.Client)
}

func (c *sdkClients) CostExplorer() CostExplorerAPI {
	return c.getServiceClient("", "costexplorer").(*costexplorer.Client)
}

func (c *sdkClients) Budgets() BudgetsAPI {
	return c.getServiceClient("", "budgets").(*budgets.Client)
}

func (c *sdkClients) STS() STSAPI {
	return c.getServiceClient("", "sts").(*sts.Client)
}
