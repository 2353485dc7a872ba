// Package testutil provides test utilities and mocks for command executors.
// This package is internal and should only be used for testing within this
// module.
package testutil

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/service/cloudfront"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/releasekit/sitepub/internal/awsapi"
)

// MockS3Client is a mock implementation of the S3API interface for testing.
// It allows customization of each S3 operation through function fields.
type MockS3Client struct {
	PutObjectFunc        func(context.Context, *s3.PutObjectInput, ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	GetObjectFunc        func(context.Context, *s3.GetObjectInput, ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	HeadObjectFunc       func(context.Context, *s3.HeadObjectInput, ...func(*s3.Options)) (*s3.HeadObjectOutput, error)
	CopyObjectFunc       func(context.Context, *s3.CopyObjectInput, ...func(*s3.Options)) (*s3.CopyObjectOutput, error)
	DeleteObjectsFunc    func(context.Context, *s3.DeleteObjectsInput, ...func(*s3.Options)) (*s3.DeleteObjectsOutput, error)
	ListObjectsV2Func    func(context.Context, *s3.ListObjectsV2Input, ...func(*s3.Options)) (*s3.ListObjectsV2Output, error)
	GetBucketWebsiteFunc func(context.Context, *s3.GetBucketWebsiteInput, ...func(*s3.Options)) (*s3.GetBucketWebsiteOutput, error)
	PutBucketWebsiteFunc func(context.Context, *s3.PutBucketWebsiteInput, ...func(*s3.Options)) (*s3.PutBucketWebsiteOutput, error)
}

// PutObject mocks the S3 PutObject operation.
func (m *MockS3Client) PutObject(
	ctx context.Context,
	params *s3.PutObjectInput,
	optFns ...func(*s3.Options),
) (*s3.PutObjectOutput, error) {
	if m.PutObjectFunc != nil {
		return m.PutObjectFunc(ctx, params, optFns...)
	}
	return &s3.PutObjectOutput{}, nil
}

// GetObject mocks the S3 GetObject operation.
func (m *MockS3Client) GetObject(
	ctx context.Context,
	params *s3.GetObjectInput,
	optFns ...func(*s3.Options),
) (*s3.GetObjectOutput, error) {
	if m.GetObjectFunc != nil {
		return m.GetObjectFunc(ctx, params, optFns...)
	}
	return &s3.GetObjectOutput{}, nil
}

// HeadObject mocks the S3 HeadObject operation.
func (m *MockS3Client) HeadObject(
	ctx context.Context,
	params *s3.HeadObjectInput,
	optFns ...func(*s3.Options),
) (*s3.HeadObjectOutput, error) {
	if m.HeadObjectFunc != nil {
		return m.HeadObjectFunc(ctx, params, optFns...)
	}
	return &s3.HeadObjectOutput{}, nil
}

// CopyObject mocks the S3 CopyObject operation.
func (m *MockS3Client) CopyObject(
	ctx context.Context,
	params *s3.CopyObjectInput,
	optFns ...func(*s3.Options),
) (*s3.CopyObjectOutput, error) {
	if m.CopyObjectFunc != nil {
		return m.CopyObjectFunc(ctx, params, optFns...)
	}
	return &s3.CopyObjectOutput{}, nil
}

// DeleteObjects mocks the S3 DeleteObjects operation.
func (m *MockS3Client) DeleteObjects(
	ctx context.Context,
	params *s3.DeleteObjectsInput,
	optFns ...func(*s3.Options),
) (*s3.DeleteObjectsOutput, error) {
	if m.DeleteObjectsFunc != nil {
		return m.DeleteObjectsFunc(ctx, params, optFns...)
	}
	return &s3.DeleteObjectsOutput{}, nil
}

// ListObjectsV2 mocks the S3 ListObjectsV2 operation.
func (m *MockS3Client) ListObjectsV2(
	ctx context.Context,
	params *s3.ListObjectsV2Input,
	optFns ...func(*s3.Options),
) (*s3.ListObjectsV2Output, error) {
	if m.ListObjectsV2Func != nil {
		return m.ListObjectsV2Func(ctx, params, optFns...)
	}
	return &s3.ListObjectsV2Output{}, nil
}

// GetBucketWebsite mocks the S3 GetBucketWebsite operation.
func (m *MockS3Client) GetBucketWebsite(
	ctx context.Context,
	params *s3.GetBucketWebsiteInput,
	optFns ...func(*s3.Options),
) (*s3.GetBucketWebsiteOutput, error) {
	if m.GetBucketWebsiteFunc != nil {
		return m.GetBucketWebsiteFunc(ctx, params, optFns...)
	}
	return &s3.GetBucketWebsiteOutput{}, nil
}

// PutBucketWebsite mocks the S3 PutBucketWebsite operation.
func (m *MockS3Client) PutBucketWebsite(
	ctx context.Context,
	params *s3.PutBucketWebsiteInput,
	optFns ...func(*s3.Options),
) (*s3.PutBucketWebsiteOutput, error) {
	if m.PutBucketWebsiteFunc != nil {
		return m.PutBucketWebsiteFunc(ctx, params, optFns...)
	}
	return &s3.PutBucketWebsiteOutput{}, nil
}

// MockCloudFrontClient is a mock implementation of the CloudFrontAPI interface
// for testing.
type MockCloudFrontClient struct {
	ListDistributionsFunc  func(context.Context, *cloudfront.ListDistributionsInput, ...func(*cloudfront.Options)) (*cloudfront.ListDistributionsOutput, error)
	CreateInvalidationFunc func(context.Context, *cloudfront.CreateInvalidationInput, ...func(*cloudfront.Options)) (*cloudfront.CreateInvalidationOutput, error)
}

// ListDistributions mocks the CloudFront ListDistributions operation.
func (m *MockCloudFrontClient) ListDistributions(
	ctx context.Context,
	params *cloudfront.ListDistributionsInput,
	optFns ...func(*cloudfront.Options),
) (*cloudfront.ListDistributionsOutput, error) {
	if m.ListDistributionsFunc != nil {
		return m.ListDistributionsFunc(ctx, params, optFns...)
	}
	return &cloudfront.ListDistributionsOutput{}, nil
}

// CreateInvalidation mocks the CloudFront CreateInvalidation operation.
func (m *MockCloudFrontClient) CreateInvalidation(
	ctx context.Context,
	params *cloudfront.CreateInvalidationInput,
	optFns ...func(*cloudfront.Options),
) (*cloudfront.CreateInvalidationOutput, error) {
	if m.CreateInvalidationFunc != nil {
		return m.CreateInvalidationFunc(ctx, params, optFns...)
	}
	return &cloudfront.CreateInvalidationOutput{}, nil
}

// Ensure the mocks implement the awsapi interfaces
var (
	_ awsapi.S3API         = (*MockS3Client)(nil)
	_ awsapi.CloudFrontAPI = (*MockCloudFrontClient)(nil)
)
