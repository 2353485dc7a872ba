// Package sitepub provides the AWS backend: executors that carry commands out
// against real S3 buckets and CloudFront distributions.
package sitepub

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sort"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/cloudfront"
	cftypes "github.com/aws/aws-sdk-go-v2/service/cloudfront/types"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
	"github.com/google/uuid"
	"github.com/input-output-hk/catalyst-forge-libs/fs"
	"github.com/input-output-hk/catalyst-forge-libs/fs/billy"

	puberrors "github.com/releasekit/sitepub/errors"
	"github.com/releasekit/sitepub/internal/awsapi"
)

// AWS executes commands against the real AWS services. It holds the service
// clients and the filesystem used for uploads and downloads.
//
// Thread Safety: AWS is safe for concurrent use. All fields are set at
// construction time and never modified.
type AWS struct {
	// s3Client is the underlying AWS SDK S3 client
	s3Client awsapi.S3API

	// cloudFrontClient is the underlying AWS SDK CloudFront client
	cloudFrontClient awsapi.CloudFrontAPI

	// fs is the filesystem abstraction for file operations
	fs fs.Filesystem

	// logger is optional; when nil, logging is disabled
	logger *slog.Logger
}

// NewAWS creates an AWS backend with the provided options. It loads AWS
// credentials using the default credential chain and applies the specified
// configuration options.
//
// Example:
//
//	backend, err := sitepub.NewAWS(ctx,
//	    sitepub.WithRegion("us-west-2"),
//	    sitepub.WithLogger(logger),
//	)
func NewAWS(ctx context.Context, opts ...Option) (*AWS, error) {
	options := defaultOptions()
	applyOptions(options, opts)

	var cfg aws.Config
	var err error

	if options.awsConfig != nil {
		cfg = *options.awsConfig
	} else {
		cfg, err = config.LoadDefaultConfig(ctx)
		if err != nil {
			return nil, puberrors.NewError("client initialization", err)
		}
	}

	// Apply region from options if specified, otherwise ensure a region is set
	if options.region != "" {
		cfg.Region = options.region
	} else if cfg.Region == "" {
		cfg.Region = "us-east-1" // AWS default region
	}

	if options.maxRetries > 0 {
		cfg.RetryMaxAttempts = options.maxRetries
	}

	var httpClient *http.Client
	if options.timeout > 0 {
		httpClient = &http.Client{Timeout: options.timeout}
	}

	var s3Opts []func(*s3.Options)
	if options.forcePathStyle {
		s3Opts = append(s3Opts, func(o *s3.Options) {
			o.UsePathStyle = true
		})
	}
	if options.endpoint != "" {
		s3Opts = append(s3Opts, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(options.endpoint)
		})
	}
	if httpClient != nil {
		s3Opts = append(s3Opts, func(o *s3.Options) {
			o.HTTPClient = httpClient
		})
	}

	var cfOpts []func(*cloudfront.Options)
	if options.endpoint != "" {
		cfOpts = append(cfOpts, func(o *cloudfront.Options) {
			o.BaseEndpoint = aws.String(options.endpoint)
		})
	}
	if httpClient != nil {
		cfOpts = append(cfOpts, func(o *cloudfront.Options) {
			o.HTTPClient = httpClient
		})
	}

	s3Client := options.s3Client
	if s3Client == nil {
		s3Client = s3.NewFromConfig(cfg, s3Opts...)
	}
	cloudFrontClient := options.cloudFront
	if cloudFrontClient == nil {
		cloudFrontClient = cloudfront.NewFromConfig(cfg, cfOpts...)
	}

	filesystem := options.fsys
	if filesystem == nil {
		// Default to OS filesystem rooted at /
		filesystem = billy.NewOSFS("/")
	}

	return &AWS{
		s3Client:         s3Client,
		cloudFrontClient: cloudFrontClient,
		fs:               filesystem,
		logger:           options.logger,
	}, nil
}

// NewAWSWithClients creates an AWS backend with custom client implementations.
// This is primarily used for testing with mocked clients.
func NewAWSWithClients(s3Client awsapi.S3API, cloudFrontClient awsapi.CloudFrontAPI, opts ...Option) *AWS {
	options := defaultOptions()
	applyOptions(options, opts)

	filesystem := options.fsys
	if filesystem == nil {
		filesystem = billy.NewOSFS("/")
	}

	return &AWS{
		s3Client:         s3Client,
		cloudFrontClient: cloudFrontClient,
		fs:               filesystem,
		logger:           options.logger,
	}
}

// Dispatcher returns a dispatcher with every command kind bound to this
// backend's executors.
func (a *AWS) Dispatcher() *Dispatcher {
	d := NewDispatcher(WithLogger(a.logger))
	d.Register(KindUpdateRoutingRules, a.updateRoutingRules)
	d.Register(KindUpdateErrorPage, a.updateErrorPage)
	d.Register(KindCreateInvalidation, a.createInvalidation)
	d.Register(KindDeleteKeys, a.deleteKeys)
	d.Register(KindCopyKeys, a.copyKeys)
	d.Register(KindListKeys, a.listKeys)
	d.Register(KindDownloadKey, a.downloadKey)
	d.Register(KindUploadKey, a.uploadKey)
	registerComposites(d, a.fs)
	return d
}

// updateRoutingRules replaces the routing rules of the bucket's website
// configuration, preserving its index and error documents.
func (a *AWS) updateRoutingRules(ctx context.Context, _ *Dispatcher, cmd Command) (any, error) {
	c := cmd.(UpdateRoutingRules)
	op := string(KindUpdateRoutingRules)

	website, err := a.s3Client.GetBucketWebsite(ctx, &s3.GetBucketWebsiteInput{
		Bucket: aws.String(c.Bucket),
	})
	if err != nil {
		return nil, puberrors.NewBucketError(op, c.Bucket, a.classifyError(err))
	}

	if a.logger != nil {
		a.logger.InfoContext(ctx, "updating routing rules",
			"bucket", c.Bucket,
			"rules", len(c.Rules))
	}

	_, err = a.s3Client.PutBucketWebsite(ctx, &s3.PutBucketWebsiteInput{
		Bucket: aws.String(c.Bucket),
		WebsiteConfiguration: &types.WebsiteConfiguration{
			ErrorDocument:         website.ErrorDocument,
			IndexDocument:         website.IndexDocument,
			RedirectAllRequestsTo: website.RedirectAllRequestsTo,
			RoutingRules:          c.Rules,
		},
	})
	if err != nil {
		return nil, puberrors.NewBucketError(op, c.Bucket, a.classifyError(err))
	}

	return nil, nil
}

// updateErrorPage points the bucket's website error document at the error page
// under the release prefix. It returns the previous error key, or "" without
// writing when the key is already current.
func (a *AWS) updateErrorPage(ctx context.Context, _ *Dispatcher, cmd Command) (any, error) {
	c := cmd.(UpdateErrorPage)
	op := string(KindUpdateErrorPage)

	website, err := a.s3Client.GetBucketWebsite(ctx, &s3.GetBucketWebsiteInput{
		Bucket: aws.String(c.Bucket),
	})
	if err != nil {
		return nil, puberrors.NewBucketError(op, c.Bucket, a.classifyError(err))
	}

	previous := ""
	if website.ErrorDocument != nil {
		previous = aws.ToString(website.ErrorDocument.Key)
	}
	next := c.ErrorKey()
	if previous == next {
		return "", nil
	}

	if a.logger != nil {
		a.logger.InfoContext(ctx, "updating error page",
			"bucket", c.Bucket,
			"key", next)
	}

	_, err = a.s3Client.PutBucketWebsite(ctx, &s3.PutBucketWebsiteInput{
		Bucket: aws.String(c.Bucket),
		WebsiteConfiguration: &types.WebsiteConfiguration{
			ErrorDocument:         &types.ErrorDocument{Key: aws.String(next)},
			IndexDocument:         website.IndexDocument,
			RedirectAllRequestsTo: website.RedirectAllRequestsTo,
			RoutingRules:          website.RoutingRules,
		},
	})
	if err != nil {
		return nil, puberrors.NewBucketError(op, c.Bucket, a.classifyError(err)).WithKey(next)
	}

	return previous, nil
}

// createInvalidation requests a cache invalidation on the first distribution
// whose aliases contain the command's CNAME.
func (a *AWS) createInvalidation(ctx context.Context, _ *Dispatcher, cmd Command) (any, error) {
	c := cmd.(CreateInvalidation)
	op := string(KindCreateInvalidation)

	distributionID, err := a.findDistributionID(ctx, c.CNAME)
	if err != nil {
		return nil, err
	}

	if a.logger != nil {
		a.logger.InfoContext(ctx, "creating invalidation",
			"cname", c.CNAME,
			"distribution", distributionID,
			"paths", len(c.Paths))
	}

	_, err = a.cloudFrontClient.CreateInvalidation(ctx, &cloudfront.CreateInvalidationInput{
		DistributionId: aws.String(distributionID),
		InvalidationBatch: &cftypes.InvalidationBatch{
			CallerReference: aws.String(uuid.NewString()),
			Paths: &cftypes.Paths{
				Quantity: aws.Int32(int32(len(c.Paths))),
				Items:    c.Paths,
			},
		},
	})
	if err != nil {
		return nil, puberrors.NewError(op, a.classifyError(err)).
			WithMessage("cname " + c.CNAME)
	}

	return nil, nil
}

// findDistributionID pages through the account's distributions and returns the
// ID of the first one whose aliases contain cname.
func (a *AWS) findDistributionID(ctx context.Context, cname string) (string, error) {
	op := string(KindCreateInvalidation)

	var marker *string
	for {
		page, err := a.cloudFrontClient.ListDistributions(ctx, &cloudfront.ListDistributionsInput{
			Marker: marker,
		})
		if err != nil {
			return "", puberrors.NewError(op, a.classifyError(err)).
				WithMessage("listing distributions")
		}

		list := page.DistributionList
		if list == nil {
			break
		}
		for _, dist := range list.Items {
			if dist.Aliases == nil {
				continue
			}
			for _, alias := range dist.Aliases.Items {
				if alias == cname {
					return aws.ToString(dist.Id), nil
				}
			}
		}

		if !aws.ToBool(list.IsTruncated) || list.NextMarker == nil {
			break
		}
		marker = list.NextMarker
	}

	return "", puberrors.NewError(op, puberrors.ErrDistributionNotFound).
		WithMessage("cname " + cname)
}

// deleteKeys removes Prefix+key for every key in the command. S3 treats
// deleting an absent key as success, so the operation is idempotent.
func (a *AWS) deleteKeys(ctx context.Context, _ *Dispatcher, cmd Command) (any, error) {
	c := cmd.(DeleteKeys)
	op := string(KindDeleteKeys)

	if len(c.Keys) == 0 {
		return nil, nil
	}

	identifiers := make([]types.ObjectIdentifier, 0, len(c.Keys))
	for _, key := range c.Keys {
		identifiers = append(identifiers, types.ObjectIdentifier{
			Key: aws.String(c.Prefix + key),
		})
	}

	if a.logger != nil {
		a.logger.InfoContext(ctx, "deleting keys",
			"bucket", c.Bucket,
			"prefix", c.Prefix,
			"count", len(identifiers))
	}

	// S3 allows up to 1000 objects per delete request
	const maxKeysPerRequest = 1000
	for start := 0; start < len(identifiers); start += maxKeysPerRequest {
		end := min(start+maxKeysPerRequest, len(identifiers))

		result, err := a.s3Client.DeleteObjects(ctx, &s3.DeleteObjectsInput{
			Bucket: aws.String(c.Bucket),
			Delete: &types.Delete{Objects: identifiers[start:end]},
		})
		if err != nil {
			return nil, puberrors.NewBucketError(op, c.Bucket, a.classifyError(err))
		}
		if len(result.Errors) > 0 {
			first := result.Errors[0]
			return nil, puberrors.NewBucketError(op, c.Bucket,
				fmt.Errorf("%s: %s", aws.ToString(first.Code), aws.ToString(first.Message))).
				WithKey(aws.ToString(first.Key))
		}
	}

	return nil, nil
}

// copyKeys copies SourcePrefix+key to DestinationPrefix+key for every key,
// carrying the source metadata over and rewriting the destination Content-Type
// from the published table when the key's extension has an entry.
func (a *AWS) copyKeys(ctx context.Context, _ *Dispatcher, cmd Command) (any, error) {
	c := cmd.(CopyKeys)
	op := string(KindCopyKeys)

	for _, key := range c.Keys {
		sourceKey := c.SourcePrefix + key
		destinationKey := c.DestinationPrefix + key

		head, err := a.s3Client.HeadObject(ctx, &s3.HeadObjectInput{
			Bucket: aws.String(c.SourceBucket),
			Key:    aws.String(sourceKey),
		})
		if err != nil {
			return nil, puberrors.NewObjectError(op, c.SourceBucket, sourceKey, a.classifyError(err))
		}

		copySource := c.SourceBucket + "/" + sourceKey
		input := &s3.CopyObjectInput{
			Bucket:            aws.String(c.DestinationBucket),
			Key:               aws.String(destinationKey),
			CopySource:        aws.String(copySource),
			Metadata:          head.Metadata,
			MetadataDirective: types.MetadataDirectiveReplace,
		}
		// The published table matches on the relative key. A key without an
		// entry keeps no Content-Type on the destination.
		if contentType := ContentTypeForKey(key); contentType != "" {
			input.ContentType = aws.String(contentType)
		}

		if _, err := a.s3Client.CopyObject(ctx, input); err != nil {
			return nil, puberrors.NewObjectError(op, c.DestinationBucket, destinationKey, a.classifyError(err)).
				WithMessage("failed to copy from " + copySource)
		}
	}

	return nil, nil
}

// listKeys returns the sorted, de-duplicated suffixes of every key under
// Prefix, with the prefix stripped.
func (a *AWS) listKeys(ctx context.Context, _ *Dispatcher, cmd Command) (any, error) {
	c := cmd.(ListKeys)
	op := string(KindListKeys)

	seen := make(map[string]struct{})
	input := &s3.ListObjectsV2Input{
		Bucket: aws.String(c.Bucket),
		Prefix: aws.String(c.Prefix),
	}
	for {
		page, err := a.s3Client.ListObjectsV2(ctx, input)
		if err != nil {
			return nil, puberrors.NewBucketError(op, c.Bucket, a.classifyError(err))
		}

		for _, object := range page.Contents {
			key := aws.ToString(object.Key)
			seen[strings.TrimPrefix(key, c.Prefix)] = struct{}{}
		}

		if !aws.ToBool(page.IsTruncated) || page.NextContinuationToken == nil {
			break
		}
		input.ContinuationToken = page.NextContinuationToken
	}

	suffixes := make([]string, 0, len(seen))
	for suffix := range seen {
		suffixes = append(suffixes, suffix)
	}
	sort.Strings(suffixes)

	return suffixes, nil
}

// downloadKey fetches an object and writes its content to TargetPath,
// overwriting any existing file. The object is fetched before the file is
// created so a missing key leaves no empty file behind.
func (a *AWS) downloadKey(ctx context.Context, _ *Dispatcher, cmd Command) (any, error) {
	c := cmd.(DownloadKey)
	op := string(KindDownloadKey)

	output, err := a.s3Client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(c.SourceBucket),
		Key:    aws.String(c.SourceKey),
	})
	if err != nil {
		return nil, puberrors.NewObjectError(op, c.SourceBucket, c.SourceKey, a.classifyError(err))
	}
	defer output.Body.Close()

	file, err := a.fs.Create(c.TargetPath)
	if err != nil {
		return nil, puberrors.NewObjectError(op, c.SourceBucket, c.SourceKey, err)
	}
	defer file.Close()

	if _, err := io.Copy(file, output.Body); err != nil {
		return nil, puberrors.NewObjectError(op, c.SourceBucket, c.SourceKey, err)
	}

	return nil, nil
}

// uploadKey reads File from the filesystem and stores it publicly readable at
// TargetKey. The Content-Type header is set only when the command carries one.
func (a *AWS) uploadKey(ctx context.Context, _ *Dispatcher, cmd Command) (any, error) {
	c := cmd.(UploadKey)
	op := string(KindUploadKey)

	content, err := a.fs.ReadFile(c.File)
	if err != nil {
		return nil, puberrors.NewObjectError(op, c.TargetBucket, c.TargetKey, err)
	}

	if a.logger != nil {
		a.logger.InfoContext(ctx, "uploading key",
			"bucket", c.TargetBucket,
			"key", c.TargetKey,
			"size", len(content))
	}

	input := &s3.PutObjectInput{
		Bucket: aws.String(c.TargetBucket),
		Key:    aws.String(c.TargetKey),
		Body:   bytes.NewReader(content),
		ACL:    types.ObjectCannedACLPublicRead,
	}
	if c.ContentType != "" {
		input.ContentType = aws.String(c.ContentType)
	}

	if _, err := a.s3Client.PutObject(ctx, input); err != nil {
		return nil, puberrors.NewObjectError(op, c.TargetBucket, c.TargetKey, a.classifyError(err))
	}

	return nil, nil
}

// classifyError maps AWS SDK errors onto the package sentinels so callers can
// test them with errors.Is. Errors without a recognized code pass through
// unchanged.
func (a *AWS) classifyError(err error) error {
	if err == nil {
		return nil
	}

	var noSuchKey *types.NoSuchKey
	if errors.As(err, &noSuchKey) {
		return puberrors.ErrObjectNotFound
	}

	var noSuchBucket *types.NoSuchBucket
	if errors.As(err, &noSuchBucket) {
		return puberrors.ErrBucketNotFound
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		// HeadObject reports a missing key as a bare 404 NotFound
		switch apiErr.ErrorCode() {
		case "NoSuchKey", "NotFound":
			return puberrors.ErrObjectNotFound
		case "NoSuchBucket":
			return puberrors.ErrBucketNotFound
		case "AccessDenied":
			return puberrors.ErrAccessDenied
		}
	}

	return err
}
