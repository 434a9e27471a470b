package aws

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	ec2Types "github.com/aws/aws-sdk-go-v2/service/ec2/types"
	"github.com/aws/aws-sdk-go-v2/service/rds"
	rdsTypes "github.com/aws/aws-sdk-go-v2/service/rds/types"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/diillson/cloud-insights-reports/internal/domain/entity"
)

// GetAccessibleRegions lista as regiões habilitadas. Em caso de falha devolve a
// lista fixa e marca o resultado como degradado.
func (p *Provider) GetAccessibleRegions(ctx context.Context) entity.Outcome[[]string] {
	fallback := append([]string(nil), p.opts.FallbackRegions...)

	out, err := p.clients.EC2(globalRegion).DescribeRegions(ctx, &ec2.DescribeRegionsInput{AllRegions: aws.Bool(false)})
	if err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Msg("region listing failed, using fallback region list")
		return entity.Fallback(fallback, fmt.Sprintf("region listing failed: %v", err))
	}

	regions := make([]string, 0, len(out.Regions))
	for _, region := range out.Regions {
		if region.RegionName != nil {
			regions = append(regions, *region.RegionName)
		}
	}
	if len(regions) == 0 {
		return entity.Fallback(fallback, "region listing returned no regions")
	}
	return entity.Clean(regions)
}

// DiscoverResources lists EC2 and RDS instances in every accessible region.
// Each region/service pair is listed independently; a failure contributes an
// empty list and is logged.
func (p *Provider) DiscoverResources(ctx context.Context) (entity.Outcome[[]entity.ResourceDescriptor], error) {
	regions := p.GetAccessibleRegions(ctx)
	log := zerolog.Ctx(ctx)

	var (
		mu        sync.Mutex
		resources []entity.ResourceDescriptor
	)
	collect := func(found []entity.ResourceDescriptor) {
		mu.Lock()
		resources = append(resources, found...)
		mu.Unlock()
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.opts.Concurrency)
	for _, region := range regions.Value {
		rgn := region
		g.Go(func() error {
			found, err := p.listEC2Instances(gctx, rgn)
			if err != nil {
				log.Warn().Err(err).Str("region", rgn).Msg("failed to list EC2 instances")
				return nil
			}
			collect(found)
			return nil
		})
		g.Go(func() error {
			found, err := p.listRDSInstances(gctx, rgn)
			if err != nil {
				log.Warn().Err(err).Str("region", rgn).Msg("failed to list RDS instances")
				return nil
			}
			collect(found)
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return entity.Outcome[[]entity.ResourceDescriptor]{}, err
	}

	sort.SliceStable(resources, func(i, j int) bool {
		if resources[i].Region != resources[j].Region {
			return resources[i].Region < resources[j].Region
		}
		if resources[i].ServiceType != resources[j].ServiceType {
			return resources[i].ServiceType < resources[j].ServiceType
		}
		return resources[i].Name < resources[j].Name
	})
	if resources == nil {
		resources = []entity.ResourceDescriptor{}
	}

	return entity.Outcome[[]entity.ResourceDescriptor]{
		Value:    resources,
		Degraded: regions.Degraded,
		Reasons:  regions.Reasons,
	}, nil
}

// DescribeResource carrega os campos de identidade de uma instância EC2 ou RDS.
func (p *Provider) DescribeResource(ctx context.Context, ref entity.ResourceRef) (entity.ResourceDescriptor, error) {
	switch ref.ServiceType {
	case entity.ServiceEC2:
		out, err := p.clients.EC2(ref.Region).DescribeInstances(ctx, &ec2.DescribeInstancesInput{
			InstanceIds: []string{ref.ID},
		})
		if err != nil {
			return entity.ResourceDescriptor{}, fmt.Errorf("error describing instance %s in %s: %w", ref.ID, ref.Region, err)
		}
		for _, reservation := range out.Reservations {
			for _, instance := range reservation.Instances {
				return ec2Descriptor(instance, ref.Region), nil
			}
		}
		return entity.ResourceDescriptor{}, fmt.Errorf("instance %s not found in %s", ref.ID, ref.Region)
	case entity.ServiceRDS:
		out, err := p.clients.RDS(ref.Region).DescribeDBInstances(ctx, &rds.DescribeDBInstancesInput{
			DBInstanceIdentifier: aws.String(ref.ID),
		})
		if err != nil {
			return entity.ResourceDescriptor{}, fmt.Errorf("error describing DB instance %s in %s: %w", ref.ID, ref.Region, err)
		}
		if len(out.DBInstances) == 0 {
			return entity.ResourceDescriptor{}, fmt.Errorf("DB instance %s not found in %s", ref.ID, ref.Region)
		}
		return rdsDescriptor(out.DBInstances[0], ref.Region), nil
	}
	return entity.ResourceDescriptor{}, fmt.Errorf("unsupported service type for AWS: %s", ref.ServiceType)
}

func (p *Provider) listEC2Instances(ctx context.Context, region string) ([]entity.ResourceDescriptor, error) {
	var found []entity.ResourceDescriptor
	paginator := ec2.NewDescribeInstancesPaginator(p.clients.EC2(region), &ec2.DescribeInstancesInput{})
	for paginator.HasMorePages() {
		output, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, err
		}
		for _, reservation := range output.Reservations {
			for _, instance := range reservation.Instances {
				found = append(found, ec2Descriptor(instance, region))
			}
		}
	}
	return found, nil
}

func (p *Provider) listRDSInstances(ctx context.Context, region string) ([]entity.ResourceDescriptor, error) {
	var found []entity.ResourceDescriptor
	paginator := rds.NewDescribeDBInstancesPaginator(p.clients.RDS(region), &rds.DescribeDBInstancesInput{})
	for paginator.HasMorePages() {
		output, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, err
		}
		for _, instance := range output.DBInstances {
			found = append(found, rdsDescriptor(instance, region))
		}
	}
	return found, nil
}

func ec2Descriptor(instance ec2Types.Instance, region string) entity.ResourceDescriptor {
	id := aws.ToString(instance.InstanceId)
	name := id
	for _, tag := range instance.Tags {
		if aws.ToString(tag.Key) == "Name" && aws.ToString(tag.Value) != "" {
			name = aws.ToString(tag.Value)
			break
		}
	}
	state := ""
	if instance.State != nil {
		state = string(instance.State.Name)
	}
	return entity.ResourceDescriptor{
		ID:          id,
		Name:        name,
		Type:        string(instance.InstanceType),
		OS:          string(entity.ParseOSFamily(string(instance.Platform))),
		State:       state,
		Region:      region,
		ServiceType: entity.ServiceEC2,
	}
}

func rdsDescriptor(instance rdsTypes.DBInstance, region string) entity.ResourceDescriptor {
	id := aws.ToString(instance.DBInstanceIdentifier)
	return entity.ResourceDescriptor{
		ID:          id,
		Name:        id,
		Type:        aws.ToString(instance.DBInstanceClass),
		Engine:      aws.ToString(instance.Engine),
		State:       aws.ToString(instance.DBInstanceStatus),
		Region:      region,
		ServiceType: entity.ServiceRDS,
	}
}
