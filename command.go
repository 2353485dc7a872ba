// Package sitepub provides the command types executed against storage backends.
package sitepub

import (
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/releasekit/sitepub/internal/validation"
)

// Kind identifies a command variant.
type Kind string

// Command kinds, one per operation.
const (
	KindUpdateRoutingRules    Kind = "UpdateRoutingRules"
	KindUpdateErrorPage       Kind = "UpdateErrorPage"
	KindCreateInvalidation    Kind = "CreateInvalidation"
	KindDeleteKeys            Kind = "DeleteKeys"
	KindCopyKeys              Kind = "CopyKeys"
	KindListKeys              Kind = "ListKeys"
	KindDownloadKey           Kind = "DownloadKey"
	KindDownloadKeysRecursive Kind = "DownloadKeysRecursive"
	KindReadKey               Kind = "ReadKey"
	KindUploadKey             Kind = "UploadKey"
	KindUploadKeysRecursive   Kind = "UploadKeysRecursive"
)

// Command describes one desired storage or CDN operation as pure data.
// Constructing a command performs no I/O; executing one is the Dispatcher's
// job. The set of variants is closed: the unexported validate method keeps
// other packages from adding their own.
type Command interface {
	// Kind returns the variant tag used for executor lookup.
	Kind() Kind

	// validate checks required-field presence. It never performs I/O.
	validate() error
}

// UpdateRoutingRules replaces the routing rules of a bucket's website
// configuration. The rest of the configuration (index document, error
// document) is preserved.
type UpdateRoutingRules struct {
	// Bucket is the name of the bucket whose website configuration changes.
	Bucket string

	// Rules is the new, complete set of routing rules.
	Rules []types.RoutingRule
}

// Kind implements Command.
func (UpdateRoutingRules) Kind() Kind { return KindUpdateRoutingRules }

func (c UpdateRoutingRules) validate() error {
	return validation.Require(string(c.Kind()), "bucket", c.Bucket)
}

// UpdateErrorPage points the error page of a bucket's website configuration
// at the error document under a new target prefix.
//
// Executing it returns the previous error key as a string, or "" when the
// key is unchanged (the real backend then skips the write entirely).
type UpdateErrorPage struct {
	// Bucket is the name of the bucket whose website configuration changes.
	Bucket string

	// TargetPrefix is the key prefix of the release the error page lives under.
	TargetPrefix string
}

// Kind implements Command.
func (UpdateErrorPage) Kind() Kind { return KindUpdateErrorPage }

// ErrorKey returns the error page key derived from TargetPrefix.
func (c UpdateErrorPage) ErrorKey() string {
	return c.TargetPrefix + "error_pages/404.html"
}

func (c UpdateErrorPage) validate() error {
	return validation.Require(string(c.Kind()), "bucket", c.Bucket)
}

// CreateInvalidation requests that cached copies of the given paths be purged
// from the CloudFront distribution serving a CNAME.
type CreateInvalidation struct {
	// CNAME selects the distribution: the first one listing it among its
	// aliases is invalidated.
	CNAME string

	// Paths are the distribution paths to invalidate.
	Paths []string
}

// Kind implements Command.
func (CreateInvalidation) Kind() Kind { return KindCreateInvalidation }

func (c CreateInvalidation) validate() error {
	return validation.Require(string(c.Kind()), "cname", c.CNAME)
}

// DeleteKeys removes a list of keys from a bucket. Each key is prefixed with
// Prefix before deletion. Deleting an absent key is a no-op.
type DeleteKeys struct {
	// Bucket is the name of the bucket to delete keys from.
	Bucket string

	// Prefix is prepended to each key. Defaults to "".
	Prefix string

	// Keys are the keys to delete, without the prefix.
	Keys []string
}

// Kind implements Command.
func (DeleteKeys) Kind() Kind { return KindDeleteKeys }

func (c DeleteKeys) validate() error {
	return validation.Require(string(c.Kind()), "bucket", c.Bucket)
}

// CopyKeys copies a list of keys from one bucket to another. Source and
// destination prefixes are prepended to each key on their respective sides.
type CopyKeys struct {
	// SourceBucket is the name of the bucket to copy keys from.
	SourceBucket string

	// SourcePrefix is prepended to each key in SourceBucket. Defaults to "".
	SourcePrefix string

	// DestinationBucket is the name of the bucket to copy keys to.
	DestinationBucket string

	// DestinationPrefix is prepended to each key in DestinationBucket.
	// Defaults to "".
	DestinationPrefix string

	// Keys are the keys to copy, without either prefix.
	Keys []string
}

// Kind implements Command.
func (CopyKeys) Kind() Kind { return KindCopyKeys }

func (c CopyKeys) validate() error {
	op := string(c.Kind())
	if err := validation.Require(op, "source bucket", c.SourceBucket); err != nil {
		return err
	}
	return validation.Require(op, "destination bucket", c.DestinationBucket)
}

// ListKeys lists the keys under a prefix in a bucket.
//
// Executing it returns a sorted []string of key names with the prefix
// stripped from the front. The result carries no duplicates.
type ListKeys struct {
	// Bucket is the name of the bucket to list keys from.
	Bucket string

	// Prefix restricts the listing to keys that start with it.
	Prefix string
}

// Kind implements Command.
func (ListKeys) Kind() Kind { return KindListKeys }

func (c ListKeys) validate() error {
	return validation.Require(string(c.Kind()), "bucket", c.Bucket)
}

// DownloadKey fetches one object and writes its content to a local file,
// overwriting it. The parent directory must already exist. Executing it fails
// with ErrObjectNotFound when the key is absent.
type DownloadKey struct {
	// SourceBucket is the name of the bucket to download from.
	SourceBucket string

	// SourceKey is the key to download.
	SourceKey string

	// TargetPath is the local file path to write to.
	TargetPath string
}

// Kind implements Command.
func (DownloadKey) Kind() Kind { return KindDownloadKey }

func (c DownloadKey) validate() error {
	op := string(c.Kind())
	if err := validation.Require(op, "source bucket", c.SourceBucket); err != nil {
		return err
	}
	if err := validation.RequireKey(op, "source key", c.SourceKey); err != nil {
		return err
	}
	return validation.Require(op, "target path", c.TargetPath)
}

// DownloadKeysRecursive downloads every key under SourcePrefix whose name ends
// in one of FilterExtensions into TargetPath, creating parent directories as
// needed. A key name that would resolve outside TargetPath fails the whole
// operation.
type DownloadKeysRecursive struct {
	// SourceBucket is the name of the bucket to download from.
	SourceBucket string

	// SourcePrefix scopes the download; keys are listed under SourcePrefix + "/".
	SourcePrefix string

	// TargetPath is the local directory to download into.
	TargetPath string

	// FilterExtensions limits the download to keys with one of these suffixes.
	// An empty list matches nothing.
	FilterExtensions []string
}

// Kind implements Command.
func (DownloadKeysRecursive) Kind() Kind { return KindDownloadKeysRecursive }

func (c DownloadKeysRecursive) validate() error {
	op := string(c.Kind())
	if err := validation.Require(op, "source bucket", c.SourceBucket); err != nil {
		return err
	}
	return validation.Require(op, "target path", c.TargetPath)
}

// ReadKey fetches one object and returns its content.
//
// Executing it returns the content as []byte, or ErrObjectNotFound when the
// key is absent. The implementation stages the download through a temporary
// file that is removed on every exit path.
type ReadKey struct {
	// SourceBucket is the name of the bucket to read from.
	SourceBucket string

	// SourceKey is the key to read.
	SourceKey string
}

// Kind implements Command.
func (ReadKey) Kind() Kind { return KindReadKey }

func (c ReadKey) validate() error {
	op := string(c.Kind())
	if err := validation.Require(op, "source bucket", c.SourceBucket); err != nil {
		return err
	}
	return validation.RequireKey(op, "source key", c.SourceKey)
}

// UploadKey uploads one local file to a key, creating or overwriting it. The
// uploaded object is marked publicly readable. When ContentType is set it is
// stored as the object's Content-Type header.
type UploadKey struct {
	// SourcePath is the directory the file was resolved under when issued by
	// UploadKeysRecursive. Informational; the upload reads File directly.
	SourcePath string

	// TargetBucket is the name of the bucket to upload to.
	TargetBucket string

	// TargetKey is the key to create or overwrite.
	TargetKey string

	// File is the local path of the file to upload.
	File string

	// ContentType is the optional Content-Type header. "" leaves it unset.
	ContentType string
}

// Kind implements Command.
func (UploadKey) Kind() Kind { return KindUploadKey }

func (c UploadKey) validate() error {
	op := string(c.Kind())
	if err := validation.Require(op, "target bucket", c.TargetBucket); err != nil {
		return err
	}
	if err := validation.RequireKey(op, "target key", c.TargetKey); err != nil {
		return err
	}
	return validation.Require(op, "file", c.File)
}

// UploadKeysRecursive uploads the given files from under SourcePath, each to
// TargetKey + "/" + its relative path. Entries that are not regular files are
// silently skipped; a relative path that would resolve outside SourcePath
// fails the whole operation.
type UploadKeysRecursive struct {
	// SourcePath is the local directory the relative paths resolve against.
	SourcePath string

	// TargetBucket is the name of the bucket to upload to.
	TargetBucket string

	// TargetKey is the key prefix uploaded files are placed under.
	TargetKey string

	// Files are the relative paths to upload, processed in order.
	Files []string
}

// Kind implements Command.
func (UploadKeysRecursive) Kind() Kind { return KindUploadKeysRecursive }

func (c UploadKeysRecursive) validate() error {
	op := string(c.Kind())
	if err := validation.Require(op, "source path", c.SourcePath); err != nil {
		return err
	}
	return validation.Require(op, "target bucket", c.TargetBucket)
}
