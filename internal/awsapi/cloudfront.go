package awsapi

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/service/cloudfront"
)

// CloudFrontAPI defines the interface for CloudFront operations used by this module.
type CloudFrontAPI interface {
	// ListDistributions lists CloudFront distributions
	ListDistributions(
		ctx context.Context,
		params *cloudfront.ListDistributionsInput,
		optFns ...func(*cloudfront.Options),
	) (*cloudfront.ListDistributionsOutput, error)

	// CreateInvalidation requests invalidation of cached paths on a distribution
	CreateInvalidation(
		ctx context.Context,
		params *cloudfront.CreateInvalidationInput,
		optFns ...func(*cloudfront.Options),
	) (*cloudfront.CreateInvalidationOutput, error)
}

// Verify that the AWS CloudFront client implements our interface
var _ CloudFrontAPI = (*cloudfront.Client)(nil)
