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
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2instanceconnect"
	"go.uber.org/zap"

	"github.com/Adembc/eicproxy/internal/core/domain"
	"github.com/Adembc/eicproxy/internal/core/ports"
)

type sendSSHPublicKeyAPI interface {
	SendSSHPublicKey(ctx context.Context, params *ec2instanceconnect.SendSSHPublicKeyInput,
		optFns ...func(*ec2instanceconnect.Options)) (*ec2instanceconnect.SendSSHPublicKeyOutput, error)
}

type instanceConnect struct {
	client func(ctx context.Context, scope domain.CloudScope) (sendSSHPublicKeyAPI, error)
	logger *zap.SugaredLogger
}

// NewInstanceConnect returns a KeyPusher backed by EC2 Instance Connect.
func NewInstanceConnect(logger *zap.SugaredLogger, sessions *Sessions) ports.KeyPusher {
	return &instanceConnect{
		client: func(ctx context.Context, scope domain.CloudScope) (sendSSHPublicKeyAPI, error) {
			return sessions.InstanceConnect(ctx, scope)
		},
		logger: logger,
	}
}

func (c *instanceConnect) SendSSHPublicKey(ctx context.Context, scope domain.CloudScope, req domain.KeyPushRequest) error {
	client, err := c.client(ctx, scope)
	if err != nil {
		return err
	}

	input := &ec2instanceconnect.SendSSHPublicKeyInput{
		InstanceId:     aws.String(req.InstanceID),
		InstanceOSUser: aws.String(req.OSUser),
		SSHPublicKey:   aws.String(req.PublicKey),
	}
	if req.AvailabilityZone != "" {
		input.AvailabilityZone = aws.String(req.AvailabilityZone)
	}

	out, err := client.SendSSHPublicKey(ctx, input)
	if err != nil {
		return classify("send ssh public key", err)
	}
	if !out.Success {
		return fmt.Errorf("send ssh public key: request %s was not accepted", aws.ToString(out.RequestId))
	}

	c.logger.Debugw("public key sent", "instance_id", req.InstanceID, "user", req.OSUser,
		"request_id", aws.ToString(out.RequestId))
	return nil
}
