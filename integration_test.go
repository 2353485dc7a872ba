//go:build integration
// +build integration

package sitepub_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/releasekit/sitepub"
	"github.com/releasekit/sitepub/errors"
	"github.com/releasekit/sitepub/internal/testutil"
)

// TestIntegrationCommands runs the storage commands against LocalStack.
// CloudFront is not part of the LocalStack community image, so the
// CreateInvalidation command is covered by mocked tests only.
func TestIntegrationCommands(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	ctx := context.Background()
	container, s3Client, cleanup := testutil.SetupLocalStackTest(t)
	defer cleanup()

	bucketName := testutil.GenerateTestBucketName("sitepub")
	require.NoError(t, testutil.CreateTestBucketInLocalStack(ctx, s3Client, bucketName),
		"Failed to create test bucket")
	defer testutil.CleanupTestBucketInLocalStack(ctx, s3Client, bucketName)
	require.NoError(t, testutil.CreateTestWebsiteInLocalStack(ctx, s3Client, bucketName),
		"Failed to configure bucket website")

	cfg, err := container.GetAWSConfig(ctx)
	require.NoError(t, err)

	backend, err := sitepub.NewAWS(ctx,
		sitepub.WithAWSConfig(&cfg),
		sitepub.WithEndpoint(container.Endpoint()),
		sitepub.WithForcePathStyle(true),
	)
	require.NoError(t, err)
	d := backend.Dispatcher()

	workDir := t.TempDir()
	writeLocal := func(name, content string) string {
		path := filepath.Join(workDir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
		return path
	}

	t.Run("upload and list", func(t *testing.T) {
		_, err := d.Dispatch(ctx, sitepub.UploadKey{
			TargetBucket: bucketName,
			TargetKey:    "release/1.0.0/index.html",
			File:         writeLocal("index.html", "<html/>"),
			ContentType:  "text/html",
		})
		require.NoError(t, err)

		_, err = d.Dispatch(ctx, sitepub.UploadKey{
			TargetBucket: bucketName,
			TargetKey:    "release/1.0.0/site.css",
			File:         writeLocal("site.css", "body {}"),
		})
		require.NoError(t, err)

		listed, err := d.Dispatch(ctx, sitepub.ListKeys{
			Bucket: bucketName,
			Prefix: "release/1.0.0/",
		})
		require.NoError(t, err)
		assert.Equal(t, []string{"index.html", "site.css"}, listed)
	})

	t.Run("copy rewrites content type from the published table", func(t *testing.T) {
		_, err := d.Dispatch(ctx, sitepub.CopyKeys{
			SourceBucket:      bucketName,
			SourcePrefix:      "release/1.0.0/",
			DestinationBucket: bucketName,
			DestinationPrefix: "release/1.1.0/",
			Keys:              []string{"index.html", "site.css"},
		})
		require.NoError(t, err)

		head, err := s3Client.HeadObject(ctx, &s3.HeadObjectInput{
			Bucket: aws.String(bucketName),
			Key:    aws.String("release/1.1.0/site.css"),
		})
		require.NoError(t, err)
		assert.Equal(t, "text/css", aws.ToString(head.ContentType))
	})

	t.Run("download and read", func(t *testing.T) {
		target := filepath.Join(workDir, "downloaded.html")
		_, err := d.Dispatch(ctx, sitepub.DownloadKey{
			SourceBucket: bucketName,
			SourceKey:    "release/1.0.0/index.html",
			TargetPath:   target,
		})
		require.NoError(t, err)

		content, err := os.ReadFile(target)
		require.NoError(t, err)
		assert.Equal(t, []byte("<html/>"), content)

		read, err := d.Dispatch(ctx, sitepub.ReadKey{
			SourceBucket: bucketName,
			SourceKey:    "release/1.0.0/index.html",
		})
		require.NoError(t, err)
		assert.Equal(t, []byte("<html/>"), read)
	})

	t.Run("read missing key", func(t *testing.T) {
		_, err := d.Dispatch(ctx, sitepub.ReadKey{
			SourceBucket: bucketName,
			SourceKey:    "release/1.0.0/absent.html",
		})
		require.Error(t, err)
		assert.True(t, errors.IsObjectNotFound(err))
	})

	t.Run("recursive download filters by extension", func(t *testing.T) {
		target := filepath.Join(workDir, "tree")
		_, err := d.Dispatch(ctx, sitepub.DownloadKeysRecursive{
			SourceBucket:     bucketName,
			SourcePrefix:     "release/1.0.0",
			TargetPath:       target,
			FilterExtensions: []string{".html"},
		})
		require.NoError(t, err)

		content, err := os.ReadFile(filepath.Join(target, "index.html"))
		require.NoError(t, err)
		assert.Equal(t, []byte("<html/>"), content)

		_, err = os.Stat(filepath.Join(target, "site.css"))
		assert.True(t, os.IsNotExist(err))
	})

	t.Run("delete keys is idempotent", func(t *testing.T) {
		cmd := sitepub.DeleteKeys{
			Bucket: bucketName,
			Prefix: "release/1.1.0/",
			Keys:   []string{"index.html", "site.css", "never-existed.html"},
		}

		_, err := d.Dispatch(ctx, cmd)
		require.NoError(t, err)

		listed, err := d.Dispatch(ctx, sitepub.ListKeys{
			Bucket: bucketName,
			Prefix: "release/1.1.0/",
		})
		require.NoError(t, err)
		assert.Empty(t, listed)

		// Deleting the same keys again succeeds
		_, err = d.Dispatch(ctx, cmd)
		require.NoError(t, err)
	})

	t.Run("routing rules round trip", func(t *testing.T) {
		rules := []types.RoutingRule{
			{
				Condition: &types.Condition{KeyPrefixEquals: aws.String("en/devel/")},
				Redirect:  &types.Redirect{ReplaceKeyPrefixWith: aws.String("en/1.0.0/")},
			},
		}

		_, err := d.Dispatch(ctx, sitepub.UpdateRoutingRules{
			Bucket: bucketName,
			Rules:  rules,
		})
		require.NoError(t, err)

		website, err := s3Client.GetBucketWebsite(ctx, &s3.GetBucketWebsiteInput{
			Bucket: aws.String(bucketName),
		})
		require.NoError(t, err)
		require.Len(t, website.RoutingRules, 1)
		assert.Equal(t, "en/devel/", aws.ToString(website.RoutingRules[0].Condition.KeyPrefixEquals))

		// The index document set at bucket creation survives the update
		require.NotNil(t, website.IndexDocument)
		assert.Equal(t, "index.html", aws.ToString(website.IndexDocument.Suffix))
	})

	t.Run("error page updates return the previous key", func(t *testing.T) {
		previous, err := d.Dispatch(ctx, sitepub.UpdateErrorPage{
			Bucket:       bucketName,
			TargetPrefix: "release/1.0.0/",
		})
		require.NoError(t, err)
		assert.Equal(t, "", previous)

		previous, err = d.Dispatch(ctx, sitepub.UpdateErrorPage{
			Bucket:       bucketName,
			TargetPrefix: "release/1.1.0/",
		})
		require.NoError(t, err)
		assert.Equal(t, "release/1.0.0/error_pages/404.html", previous)

		website, err := s3Client.GetBucketWebsite(ctx, &s3.GetBucketWebsiteInput{
			Bucket: aws.String(bucketName),
		})
		require.NoError(t, err)
		require.NotNil(t, website.ErrorDocument)
		assert.Equal(t, "release/1.1.0/error_pages/404.html", aws.ToString(website.ErrorDocument.Key))
	})
}
