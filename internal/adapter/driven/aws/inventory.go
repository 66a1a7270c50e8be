package aws

import (
	"context"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatchlogs"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	ec2Types "github.com/aws/aws-sdk-go-v2/service/ec2/types"
	"github.com/aws/aws-sdk-go-v2/service/elasticloadbalancingv2"
	"github.com/aws/aws-sdk-go-v2/service/lambda"
	"github.com/aws/aws-sdk-go-v2/service/rds"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/diillson/aws-finops-trends/internal/domain/entity"
	"golang.org/x/sync/errgroup"
)

// GlobalScope é a "região" dos recursos globais, como os buckets S3.
const GlobalScope = "global"

const inventoryConcurrency = 8

// resourceCounter conta um tipo de recurso em uma região.
type resourceCounter struct {
	kind  string
	count func(ctx context.Context, region string) (int, error)
}

// GetInventorySnapshot conta os recursos do perfil em cada região. Cada região
// e o escopo global contam como uma conexão esperada; só as que responderam a
// todas as contagens contam como descritas.
func (r *AWSRepositoryImpl) GetInventorySnapshot(ctx context.Context, profile string, regions []string) (entity.ResourceSnapshot, error) {
	snapshot := entity.ResourceSnapshot{
		Profile:   profile,
		Timestamp: time.Now().UTC(),
	}
	snapshot.AccountID, _ = r.GetAccountID(ctx, profile)

	counts, described, err := collectCounts(ctx, regions, r.regionalCounters(profile), r.globalCounters(profile))
	if err != nil {
		return entity.ResourceSnapshot{}, err
	}
	snapshot.Counts = counts
	snapshot.ExpectedRegions = len(regions) + 1
	snapshot.DescribedRegions = described
	return snapshot, nil
}

// collectCounts executa os contadores em paralelo (limitado) e devolve as
// contagens na ordem região e depois tipo. O escopo global vem por último.
func collectCounts(ctx context.Context, regions []string, regional, global []resourceCounter) ([]entity.ResourceCount, int, error) {
	scopes := append(append([]string{}, regions...), GlobalScope)
	results := make([][]entity.ResourceCount, len(scopes))
	ok := make([]bool, len(scopes))

	g := new(errgroup.Group)
	g.SetLimit(inventoryConcurrency)

	for i, scope := range scopes {
		counters := regional
		if scope == GlobalScope {
			counters = global
		}
		g.Go(func() error {
			complete := true
			for _, c := range counters {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				n, err := c.count(ctx, scope)
				if err != nil {
					complete = false
					continue
				}
				results[i] = append(results[i], entity.ResourceCount{Kind: c.kind, Region: scope, Count: n})
			}
			ok[i] = complete
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, 0, err
	}

	var counts []entity.ResourceCount
	described := 0
	for i := range scopes {
		counts = append(counts, results[i]...)
		if ok[i] {
			described++
		}
	}
	return counts, described, nil
}

func (r *AWSRepositoryImpl) regionalCounters(profile string) []resourceCounter {
	return []resourceCounter{
		{kind: entity.ResourceEC2Instances, count: func(ctx context.Context, region string) (int, error) {
			client, err := serviceClient(ctx, r, profile, region, "ec2", func(cfg aws.Config) *ec2.Client {
				return ec2.NewFromConfig(cfg)
			})
			if err != nil {
				return 0, err
			}
			total := 0
			paginator := ec2.NewDescribeInstancesPaginator(client, &ec2.DescribeInstancesInput{})
			for paginator.HasMorePages() {
				page, err := paginator.NextPage(ctx)
				if err != nil {
					return 0, err
				}
				for _, reservation := range page.Reservations {
					for _, instance := range reservation.Instances {
						if instance.State != nil && instance.State.Name == ec2Types.InstanceStateNameTerminated {
							continue
						}
						total++
					}
				}
			}
			return total, nil
		}},
		{kind: entity.ResourceRDSInstances, count: func(ctx context.Context, region string) (int, error) {
			client, err := serviceClient(ctx, r, profile, region, "rds", func(cfg aws.Config) *rds.Client {
				return rds.NewFromConfig(cfg)
			})
			if err != nil {
				return 0, err
			}
			total := 0
			paginator := rds.NewDescribeDBInstancesPaginator(client, &rds.DescribeDBInstancesInput{})
			for paginator.HasMorePages() {
				page, err := paginator.NextPage(ctx)
				if err != nil {
					return 0, err
				}
				total += len(page.DBInstances)
			}
			return total, nil
		}},
		{kind: entity.ResourceLambda, count: func(ctx context.Context, region string) (int, error) {
			client, err := serviceClient(ctx, r, profile, region, "lambda", func(cfg aws.Config) *lambda.Client {
				return lambda.NewFromConfig(cfg)
			})
			if err != nil {
				return 0, err
			}
			total := 0
			paginator := lambda.NewListFunctionsPaginator(client, &lambda.ListFunctionsInput{})
			for paginator.HasMorePages() {
				page, err := paginator.NextPage(ctx)
				if err != nil {
					return 0, err
				}
				total += len(page.Functions)
			}
			return total, nil
		}},
		{kind: entity.ResourceLoadBalancers, count: func(ctx context.Context, region string) (int, error) {
			client, err := serviceClient(ctx, r, profile, region, "elbv2", func(cfg aws.Config) *elasticloadbalancingv2.Client {
				return elasticloadbalancingv2.NewFromConfig(cfg)
			})
			if err != nil {
				return 0, err
			}
			total := 0
			paginator := elasticloadbalancingv2.NewDescribeLoadBalancersPaginator(client, &elasticloadbalancingv2.DescribeLoadBalancersInput{})
			for paginator.HasMorePages() {
				page, err := paginator.NextPage(ctx)
				if err != nil {
					return 0, err
				}
				total += len(page.LoadBalancers)
			}
			return total, nil
		}},
		{kind: entity.ResourceLogGroups, count: func(ctx context.Context, region string) (int, error) {
			client, err := serviceClient(ctx, r, profile, region, "logs", func(cfg aws.Config) *cloudwatchlogs.Client {
				return cloudwatchlogs.NewFromConfig(cfg)
			})
			if err != nil {
				return 0, err
			}
			total := 0
			paginator := cloudwatchlogs.NewDescribeLogGroupsPaginator(client, &cloudwatchlogs.DescribeLogGroupsInput{})
			for paginator.HasMorePages() {
				page, err := paginator.NextPage(ctx)
				if err != nil {
					return 0, err
				}
				total += len(page.LogGroups)
			}
			return total, nil
		}},
	}
}

func (r *AWSRepositoryImpl) globalCounters(profile string) []resourceCounter {
	return []resourceCounter{
		{kind: entity.ResourceS3Buckets, count: func(ctx context.Context, _ string) (int, error) {
			client, err := serviceClient(ctx, r, profile, globalRegion, "s3", func(cfg aws.Config) *s3.Client {
				return s3.NewFromConfig(cfg)
			})
			if err != nil {
				return 0, err
			}
			total := 0
			paginator := s3.NewListBucketsPaginator(client, &s3.ListBucketsInput{})
			for paginator.HasMorePages() {
				page, err := paginator.NextPage(ctx)
				if err != nil {
					return 0, err
				}
				total += len(page.Buckets)
			}
			return total, nil
		}},
	}
}
