// Copyright 2025.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package cloud

import (
	"context"
	"sort"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	"github.com/aws/aws-sdk-go-v2/service/ec2/types"
	"go.uber.org/zap"

	"github.com/Adembc/eicproxy/internal/core/domain"
	"github.com/Adembc/eicproxy/internal/core/ports"
)

type ec2Describer struct {
	client func(ctx context.Context, scope domain.CloudScope) (ec2.DescribeInstancesAPIClient, error)
	logger *zap.SugaredLogger
}

// NewEC2Describer returns an InstanceDescriber backed by DescribeInstances.
func NewEC2Describer(logger *zap.SugaredLogger, sessions *Sessions) ports.InstanceDescriber {
	return &ec2Describer{
		client: func(ctx context.Context, scope domain.CloudScope) (ec2.DescribeInstancesAPIClient, error) {
			return sessions.EC2(ctx, scope)
		},
		logger: logger,
	}
}

func (d *ec2Describer) DescribeInstances(ctx context.Context, scope domain.CloudScope, filter domain.InstanceFilter) ([]domain.InstanceEndpoint, error) {
	client, err := d.client(ctx, scope)
	if err != nil {
		return nil, err
	}

	input := buildDescribeInput(filter)
	d.logger.Debugw("describe instances", "region", scope.Region, "instance_ids", input.InstanceIds,
		"filters", filter.Filters)

	var endpoints []domain.InstanceEndpoint
	paginator := ec2.NewDescribeInstancesPaginator(client, input)
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, classify("describe instances", err)
		}
		for _, reservation := range page.Reservations {
			for _, instance := range reservation.Instances {
				endpoints = append(endpoints, toEndpoint(instance))
			}
		}
	}
	return endpoints, nil
}

func buildDescribeInput(filter domain.InstanceFilter) *ec2.DescribeInstancesInput {
	input := &ec2.DescribeInstancesInput{}
	if len(filter.InstanceIDs) > 0 {
		input.InstanceIds = append([]string(nil), filter.InstanceIDs...)
	}

	names := make([]string, 0, len(filter.Filters))
	for name := range filter.Filters {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		input.Filters = append(input.Filters, types.Filter{
			Name:   aws.String(name),
			Values: append([]string(nil), filter.Filters[name]...),
		})
	}
	return input
}

func toEndpoint(instance types.Instance) domain.InstanceEndpoint {
	ep := domain.InstanceEndpoint{
		InstanceID: aws.ToString(instance.InstanceId),
		PublicDNS:  aws.ToString(instance.PublicDnsName),
		PrivateDNS: aws.ToString(instance.PrivateDnsName),
		PublicIP:   aws.ToString(instance.PublicIpAddress),
		PrivateIP:  aws.ToString(instance.PrivateIpAddress),
	}
	if instance.Placement != nil {
		ep.AvailabilityZone = aws.ToString(instance.Placement.AvailabilityZone)
	}
	return ep
}
