// Package sitepub provides functional options for configuring dispatchers and
// backends. These options follow the functional options pattern for clean,
// composable configuration.
package sitepub

import (
	"log/slog"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/input-output-hk/catalyst-forge-libs/fs"

	"github.com/releasekit/sitepub/internal/awsapi"
)

// clientOptions holds configuration shared by NewDispatcher, NewAWS and
// NewFake. Each constructor reads the fields that apply to it and ignores the
// rest.
type clientOptions struct {
	logger         *slog.Logger
	fsys           fs.Filesystem
	region         string
	maxRetries     int
	timeout        time.Duration
	endpoint       string
	forcePathStyle bool
	awsConfig      *aws.Config
	s3Client       awsapi.S3API
	cloudFront     awsapi.CloudFrontAPI
}

// Option is a functional option for configuring a dispatcher or backend.
type Option func(*clientOptions)

// WithLogger configures structured logging. If logger is nil, logging is
// disabled.
func WithLogger(logger *slog.Logger) Option {
	return func(opts *clientOptions) {
		opts.logger = logger
	}
}

// WithFilesystem sets the filesystem used for uploads, downloads and scratch
// files. This allows using in-memory filesystems for testing or virtual
// filesystems. AWS defaults to the OS filesystem, Fake to an in-memory one.
func WithFilesystem(filesystem fs.Filesystem) Option {
	return func(opts *clientOptions) {
		opts.fsys = filesystem
	}
}

// WithRegion sets the AWS region. If not specified, the region from the
// default credential chain is used, falling back to us-east-1.
func WithRegion(region string) Option {
	return func(opts *clientOptions) {
		opts.region = region
	}
}

// WithMaxRetries sets the maximum number of retry attempts for failed AWS
// calls. Default is 3 retries.
func WithMaxRetries(maxRetries int) Option {
	return func(opts *clientOptions) {
		opts.maxRetries = maxRetries
	}
}

// WithTimeout sets the timeout for individual AWS calls. Default is no
// timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(opts *clientOptions) {
		opts.timeout = timeout
	}
}

// WithEndpoint sets a custom endpoint URL for the AWS service clients. This
// is useful for S3-compatible services or local testing with LocalStack.
func WithEndpoint(endpoint string) Option {
	return func(opts *clientOptions) {
		opts.endpoint = endpoint
	}
}

// WithForcePathStyle forces path-style URLs instead of virtual-hosted style.
// This is required for S3-compatible services that don't support virtual
// hosting. Default is false.
func WithForcePathStyle(forcePathStyle bool) Option {
	return func(opts *clientOptions) {
		opts.forcePathStyle = forcePathStyle
	}
}

// WithAWSConfig provides a custom AWS configuration, overriding the default
// credential chain loading. Use this when you need fine-grained control over
// AWS SDK configuration.
func WithAWSConfig(config *aws.Config) Option {
	return func(opts *clientOptions) {
		opts.awsConfig = config
	}
}

// WithS3Client provides a custom S3 client implementation. This is primarily
// used for testing with mocked clients.
func WithS3Client(client awsapi.S3API) Option {
	return func(opts *clientOptions) {
		opts.s3Client = client
	}
}

// WithCloudFrontClient provides a custom CloudFront client implementation.
// This is primarily used for testing with mocked clients.
func WithCloudFrontClient(client awsapi.CloudFrontAPI) Option {
	return func(opts *clientOptions) {
		opts.cloudFront = client
	}
}

// defaultOptions returns the default configuration options.
func defaultOptions() *clientOptions {
	return &clientOptions{
		logger:     nil, // No default logger
		fsys:       nil, // Backend picks its default filesystem
		maxRetries: 3,
	}
}

// applyOptions applies the given options to the client options.
func applyOptions(opts *clientOptions, options []Option) {
	for _, option := range options {
		option(opts)
	}
}
