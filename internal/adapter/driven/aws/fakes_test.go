package aws

import (
	"context"
	"errors"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/budgets"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	"github.com/aws/aws-sdk-go-v2/service/costexplorer"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	"github.com/aws/aws-sdk-go-v2/service/rds"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	ssmTypes "github.com/aws/aws-sdk-go-v2/service/ssm/types"
	"github.com/aws/aws-sdk-go-v2/service/sts"
)

type fakeEC2 struct {
	regions      *ec2.DescribeRegionsOutput
	regionsErr   error
	instances    *ec2.DescribeInstancesOutput
	instancesErr error
}

func (f *fakeEC2) DescribeRegions(ctx context.Context, params *ec2.DescribeRegionsInput, optFns ...func(*ec2.Options)) (*ec2.DescribeRegionsOutput, error) {
	return f.regions, f.regionsErr
}

func (f *fakeEC2) DescribeInstances(ctx context.Context, params *ec2.DescribeInstancesInput, optFns ...func(*ec2.Options)) (*ec2.DescribeInstancesOutput, error) {
	if f.instancesErr != nil {
		return nil, f.instancesErr
	}
	if f.instances == nil {
		return &ec2.DescribeInstancesOutput{}, nil
	}
	return f.instances, nil
}

type fakeRDS struct {
	out *rds.DescribeDBInstancesOutput
	err error
}

func (f *fakeRDS) DescribeDBInstances(ctx context.Context, params *rds.DescribeDBInstancesInput, optFns ...func(*rds.Options)) (*rds.DescribeDBInstancesOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	if f.out == nil {
		return &rds.DescribeDBInstancesOutput{}, nil
	}
	return f.out, nil
}

type fakeCloudWatch struct {
	mu    sync.Mutex
	calls []*cloudwatch.GetMetricStatisticsInput
	out   *cloudwatch.GetMetricStatisticsOutput
	err   error
}

func (f *fakeCloudWatch) GetMetricStatistics(ctx context.Context, params *cloudwatch.GetMetricStatisticsInput, optFns ...func(*cloudwatch.Options)) (*cloudwatch.GetMetricStatisticsOutput, error) {
	f.mu.Lock()
	f.calls = append(f.calls, params)
	f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return f.out, nil
}

type fakeCostExplorer struct {
	pages []*costexplorer.GetCostAndUsageOutput
	calls []*costexplorer.GetCostAndUsageInput
	err   error
}

func (f *fakeCostExplorer) GetCostAndUsage(ctx context.Context, params *costexplorer.GetCostAndUsageInput, optFns ...func(*costexplorer.Options)) (*costexplorer.GetCostAndUsageOutput, error) {
	f.calls = append(f.calls, params)
	if f.err != nil {
		return nil, f.err
	}
	if len(f.calls) > len(f.pages) {
		return nil, errors.New("unexpected page request")
	}
	return f.pages[len(f.calls)-1], nil
}

type fakeBudgets struct {
	out *budgets.DescribeBudgetsOutput
	err error
}

func (f *fakeBudgets) DescribeBudgets(ctx context.Context, params *budgets.DescribeBudgetsInput, optFns ...func(*budgets.Options)) (*budgets.DescribeBudgetsOutput, error) {
	return f.out, f.err
}

type fakeSTS struct {
	account string
	err     error
}

func (f *fakeSTS) GetCallerIdentity(ctx context.Context, params *sts.GetCallerIdentityInput, optFns ...func(*sts.Options)) (*sts.GetCallerIdentityOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &sts.GetCallerIdentityOutput{Account: &f.account}, nil
}

// fakeClients serve clientes falsos por região.
type fakeClients struct {
	ec2        map[string]*fakeEC2
	rds        map[string]*fakeRDS
	cloudwatch *fakeCloudWatch
	ce         *fakeCostExplorer
	budgets    *fakeBudgets
	sts        *fakeSTS
}

func (f *fakeClients) EC2(region string) EC2API {
	if c, ok := f.ec2[region]; ok {
		return c
	}
	return &fakeEC2{regionsErr: errors.New("no fake for region")}
}

func (f *fakeClients) RDS(region string) RDSAPI {
	if c, ok := f.rds[region]; ok {
		return c
	}
	return &fakeRDS{}
}

func (f *fakeClients) CloudWatch(region string) CloudWatchAPI { return f.cloudwatch }
func (f *fakeClients) CostExplorer() CostExplorerAPI          { return f.ce }
func (f *fakeClients) Budgets() BudgetsAPI                    { return f.budgets }
func (f *fakeClients) STS() STSAPI                            { return f.sts }

type fakeSSM struct {
	params map[string]string
	pages  []*ssm.GetParametersByPathOutput
	calls  int
}

func (f *fakeSSM) GetParameter(ctx context.Context, params *ssm.GetParameterInput, optFns ...func(*ssm.Options)) (*ssm.GetParameterOutput, error) {
	v, ok := f.params[aws.ToString(params.Name)]
	if !ok {
		return nil, &ssmTypes.ParameterNotFound{Message: aws.String("parameter not found")}
	}
	return &ssm.GetParameterOutput{Parameter: &ssmTypes.Parameter{Name: params.Name, Value: aws.String(v)}}, nil
}

func (f *fakeSSM) GetParametersByPath(ctx context.Context, params *ssm.GetParametersByPathInput, optFns ...func(*ssm.Options)) (*ssm.GetParametersByPathOutput, error) {
	page := f.pages[f.calls]
	f.calls++
	return page, nil
}
