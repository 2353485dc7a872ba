// Package sitepub provides a declarative command layer for the object-storage
// and CDN operations behind a release-publishing workflow: bucket website
// routing rules, error pages, key upload/download/copy/delete/list, and cache
// invalidation.
//
// Every operation is an immutable Command value describing what should happen,
// separate from how it happens. A Dispatcher routes each command to the
// executor registered for its kind, and two interchangeable executor sets are
// provided: AWS drives real S3 and CloudFront through the AWS SDK v2, and
// Fake drives an in-memory, immutable-snapshot simulation for deterministic
// tests without network access. Code built on a Dispatcher runs unchanged
// against either.
//
// Recursive operations (DownloadKeysRecursive, UploadKeysRecursive, ReadKey)
// are composite: they are expressed purely through primitive commands issued
// back through the dispatcher, and both backends register the identical
// composite executors.
//
// Example usage:
//
//	backend, err := sitepub.NewAWS(ctx, sitepub.WithRegion("us-east-1"))
//	if err != nil {
//	    return err
//	}
//	d := backend.Dispatcher()
//
//	// Publish documentation for a release
//	_, err = d.Dispatch(ctx, sitepub.CopyKeys{
//	    SourceBucket:      "docs-staging",
//	    SourcePrefix:      "en/1.2.0/",
//	    DestinationBucket: "docs",
//	    DestinationPrefix: "en/latest/",
//	    Keys:              []string{"index.html", "style.css"},
//	})
//	if err != nil {
//	    return err
//	}
//
// Swapping in the simulation changes only the construction:
//
//	fake := sitepub.NewFake(nil, map[string]map[string][]byte{
//	    "docs-staging": {"en/1.2.0/index.html": []byte("<html/>")},
//	})
//	d := fake.Dispatcher()
package sitepub
