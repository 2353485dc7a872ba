// Package testutil provides test helper functions.
package testutil

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"math/rand"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudfront"
	cftypes "github.com/aws/aws-sdk-go-v2/service/cloudfront/types"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// StringPtr returns a pointer to the given string.
// This is useful for AWS SDK inputs that require string pointers.
func StringPtr(s string) *string {
	return aws.String(s)
}

// Int32Ptr returns a pointer to the given int32.
// This is useful for AWS SDK inputs that require int32 pointers.
func Int32Ptr(i int32) *int32 {
	return aws.Int32(i)
}

// BoolPtr returns a pointer to the given bool.
// This is useful for AWS SDK inputs that require bool pointers.
func BoolPtr(b bool) *bool {
	return aws.Bool(b)
}

// GenerateRandomData generates random bytes of the specified size.
// This is useful for creating test data for uploads.
func GenerateRandomData(size int) []byte {
	data := make([]byte, size)
	for i := range data {
		data[i] = byte(rand.Intn(256))
	}
	return data
}

// GenerateTestKey generates a test object key with optional prefix.
// This helps ensure test isolation by using unique keys.
func GenerateTestKey(prefix string) string {
	timestamp := time.Now().UnixNano()
	random := rand.Int63n(100000)
	if prefix != "" && !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}
	return fmt.Sprintf("%stest-object-%d-%d", prefix, timestamp, random)
}

// GenerateTestBucketName generates a valid test bucket name.
// Bucket names must be DNS-compliant and globally unique.
func GenerateTestBucketName(prefix string) string {
	timestamp := time.Now().Unix()
	random := rand.Int31n(10000)
	name := fmt.Sprintf("%s-%d-%d", prefix, timestamp, random)
	// Ensure DNS compliance
	name = strings.ToLower(name)
	name = strings.ReplaceAll(name, "_", "-")
	if len(name) > 63 {
		name = name[:63]
	}
	return name
}

// ObjectList builds ListObjectsV2 contents from plain key names.
func ObjectList(keys ...string) []types.Object {
	objects := make([]types.Object, 0, len(keys))
	for _, key := range keys {
		objects = append(objects, types.Object{Key: StringPtr(key)})
	}
	return objects
}

// CreateListObjectsV2Output creates a test ListObjectsV2Output structure.
// This is useful for mocking S3 list operations.
func CreateListObjectsV2Output(objects []types.Object, truncated bool, nextToken string) *s3.ListObjectsV2Output {
	output := &s3.ListObjectsV2Output{
		Contents:    objects,
		KeyCount:    Int32Ptr(int32(len(objects))),
		IsTruncated: BoolPtr(truncated),
	}
	if nextToken != "" {
		output.NextContinuationToken = StringPtr(nextToken)
	}
	return output
}

// CreateGetObjectOutput creates a test GetObjectOutput structure.
// This is useful for mocking download operations.
func CreateGetObjectOutput(data []byte, contentType string) *s3.GetObjectOutput {
	output := &s3.GetObjectOutput{
		Body:          io.NopCloser(bytes.NewReader(data)),
		ContentLength: aws.Int64(int64(len(data))),
	}
	if contentType != "" {
		output.ContentType = StringPtr(contentType)
	}
	return output
}

// CreateHeadObjectOutput creates a test HeadObjectOutput structure.
// This is useful for mocking HeadObject operations.
func CreateHeadObjectOutput(contentType string, metadata map[string]string) *s3.HeadObjectOutput {
	output := &s3.HeadObjectOutput{Metadata: metadata}
	if contentType != "" {
		output.ContentType = StringPtr(contentType)
	}
	return output
}

// CreateWebsiteOutput creates a test GetBucketWebsiteOutput structure with the
// given index document suffix, error document key and routing rules. Empty
// strings leave the corresponding document unset.
func CreateWebsiteOutput(indexSuffix, errorKey string, rules []types.RoutingRule) *s3.GetBucketWebsiteOutput {
	output := &s3.GetBucketWebsiteOutput{RoutingRules: rules}
	if indexSuffix != "" {
		output.IndexDocument = &types.IndexDocument{Suffix: StringPtr(indexSuffix)}
	}
	if errorKey != "" {
		output.ErrorDocument = &types.ErrorDocument{Key: StringPtr(errorKey)}
	}
	return output
}

// CreateDistributionSummary creates a test CloudFront distribution summary
// with the given ID and aliases.
func CreateDistributionSummary(id string, aliases ...string) cftypes.DistributionSummary {
	return cftypes.DistributionSummary{
		Id: StringPtr(id),
		Aliases: &cftypes.Aliases{
			Quantity: Int32Ptr(int32(len(aliases))),
			Items:    aliases,
		},
	}
}

// CreateListDistributionsOutput creates a test ListDistributionsOutput
// structure. This is useful for mocking distribution enumeration.
func CreateListDistributionsOutput(truncated bool, nextMarker string, items ...cftypes.DistributionSummary) *cloudfront.ListDistributionsOutput {
	list := &cftypes.DistributionList{
		Items:       items,
		Quantity:    Int32Ptr(int32(len(items))),
		IsTruncated: BoolPtr(truncated),
	}
	if nextMarker != "" {
		list.NextMarker = StringPtr(nextMarker)
	}
	return &cloudfront.ListDistributionsOutput{DistributionList: list}
}

// CleanupTestBucket creates a function to clean up a test bucket.
// This should be used with t.Cleanup() to ensure buckets are deleted after tests.
func CleanupTestBucket(client *s3.Client, bucket string) func() {
	return func() {
		// First, delete all objects in the bucket
		listInput := &s3.ListObjectsV2Input{
			Bucket: StringPtr(bucket),
		}
		for {
			listOutput, err := client.ListObjectsV2(context.Background(), listInput)
			if err != nil {
				break
			}
			if len(listOutput.Contents) == 0 {
				break
			}
			var objects []types.ObjectIdentifier
			for _, obj := range listOutput.Contents {
				objects = append(objects, types.ObjectIdentifier{
					Key: obj.Key,
				})
			}
			deleteInput := &s3.DeleteObjectsInput{
				Bucket: StringPtr(bucket),
				Delete: &types.Delete{
					Objects: objects,
				},
			}
			_, _ = client.DeleteObjects(context.Background(), deleteInput)
			if !aws.ToBool(listOutput.IsTruncated) {
				break
			}
			listInput.ContinuationToken = listOutput.NextContinuationToken
		}
		// Then delete the bucket
		deleteInput := &s3.DeleteBucketInput{
			Bucket: StringPtr(bucket),
		}
		_, _ = client.DeleteBucket(context.Background(), deleteInput)
	}
}
