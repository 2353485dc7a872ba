// Package sitepub provides the simulated backend: executors that carry
// commands out against an in-memory snapshot instead of AWS, for
// deterministic tests without network access.
package sitepub

import (
	"bytes"
	"context"
	"log/slog"
	"slices"
	"sort"
	"strings"

	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/input-output-hk/catalyst-forge-libs/fs"
	"github.com/input-output-hk/catalyst-forge-libs/fs/billy"

	"github.com/releasekit/sitepub/errors"
)

// Object is a stored object in the simulated backend. ContentType is "" for
// objects uploaded without one.
type Object struct {
	Content     []byte
	ContentType string
}

// State is an immutable snapshot of the simulated backend. Executors never
// mutate a snapshot; each state-changing command produces a successor and the
// Fake's current snapshot is replaced, so a State held by a caller never
// observes later commands.
type State struct {
	routingRules  map[string][]types.RoutingRule
	buckets       map[string]map[string]Object
	errorKeys     map[string]string
	invalidations []CreateInvalidation
}

// Objects returns a copy of the bucket's objects keyed by full key. An absent
// bucket is an empty map, never an error.
func (s State) Objects(bucket string) map[string]Object {
	objects := make(map[string]Object, len(s.buckets[bucket]))
	for key, obj := range s.buckets[bucket] {
		obj.Content = bytes.Clone(obj.Content)
		objects[key] = obj
	}
	return objects
}

// RoutingRules returns a copy of the bucket's routing rules, nil when none
// have been set.
func (s State) RoutingRules(bucket string) []types.RoutingRule {
	return slices.Clone(s.routingRules[bucket])
}

// ErrorKey returns the bucket's website error key, "" when none is set.
func (s State) ErrorKey(bucket string) string {
	return s.errorKeys[bucket]
}

// Invalidations returns a copy of every CreateInvalidation executed so far, in
// execution order.
func (s State) Invalidations() []CreateInvalidation {
	return slices.Clone(s.invalidations)
}

func (s State) object(bucket, key string) (Object, bool) {
	obj, ok := s.buckets[bucket][key]
	return obj, ok
}

// The with* transforms build a successor snapshot by copying the top-level map
// and the touched inner branch only. Untouched branches are shared between
// snapshots and never written through.

func (s State) withRoutingRules(bucket string, rules []types.RoutingRule) State {
	routingRules := make(map[string][]types.RoutingRule, len(s.routingRules)+1)
	for name, existing := range s.routingRules {
		routingRules[name] = existing
	}
	routingRules[bucket] = rules

	next := s
	next.routingRules = routingRules
	return next
}

func (s State) withErrorKey(bucket, key string) State {
	errorKeys := make(map[string]string, len(s.errorKeys)+1)
	for name, existing := range s.errorKeys {
		errorKeys[name] = existing
	}
	errorKeys[bucket] = key

	next := s
	next.errorKeys = errorKeys
	return next
}

func (s State) withInvalidation(cmd CreateInvalidation) State {
	next := s
	next.invalidations = append(slices.Clone(s.invalidations), cmd)
	return next
}

func (s State) withObject(bucket, key string, obj Object) State {
	buckets := make(map[string]map[string]Object, len(s.buckets)+1)
	for name, existing := range s.buckets {
		buckets[name] = existing
	}
	objects := make(map[string]Object, len(s.buckets[bucket])+1)
	for k, v := range s.buckets[bucket] {
		objects[k] = v
	}
	objects[key] = obj
	buckets[bucket] = objects

	next := s
	next.buckets = buckets
	return next
}

func (s State) withoutObjects(bucket string, keys []string) State {
	current, ok := s.buckets[bucket]
	if !ok {
		// Deleting from an absent bucket is a complete no-op; no empty
		// bucket materializes.
		return s
	}

	objects := make(map[string]Object, len(current))
	for k, v := range current {
		objects[k] = v
	}
	for _, key := range keys {
		delete(objects, key)
	}

	buckets := make(map[string]map[string]Object, len(s.buckets))
	for name, existing := range s.buckets {
		buckets[name] = existing
	}
	buckets[bucket] = objects

	next := s
	next.buckets = buckets
	return next
}

// Fake executes commands against an in-memory State. It registers the same
// composite executors as the AWS backend, so recursive operations exercise the
// identical code path over simulated primitives.
//
// A Fake is single-owner: it is not safe for concurrent use.
type Fake struct {
	initial State
	state   State
	fs      fs.Filesystem
	logger  *slog.Logger
}

// NewFake creates a simulated backend seeded with routing rules and bucket
// content. Seeded content is deep-copied and stored without a content type.
// The filesystem defaults to an in-memory one; override with WithFilesystem
// when commands need to touch real files.
func NewFake(routingRules map[string][]types.RoutingRule, buckets map[string]map[string][]byte, opts ...Option) *Fake {
	options := defaultOptions()
	applyOptions(options, opts)

	state := State{
		routingRules: make(map[string][]types.RoutingRule, len(routingRules)),
		buckets:      make(map[string]map[string]Object, len(buckets)),
		errorKeys:    make(map[string]string),
	}
	for bucket, rules := range routingRules {
		state.routingRules[bucket] = slices.Clone(rules)
	}
	for bucket, objects := range buckets {
		copied := make(map[string]Object, len(objects))
		for key, content := range objects {
			copied[key] = Object{Content: bytes.Clone(content)}
		}
		state.buckets[bucket] = copied
	}

	filesystem := options.fsys
	if filesystem == nil {
		filesystem = billy.NewInMemoryFS()
	}

	return &Fake{
		initial: state,
		state:   state,
		fs:      filesystem,
		logger:  options.logger,
	}
}

// State returns the current snapshot.
func (f *Fake) State() State {
	return f.state
}

// InitialState returns the construction-time snapshot. It is never altered by
// later commands, which makes before/after comparisons in tests trivial.
func (f *Fake) InitialState() State {
	return f.initial
}

// Dispatcher returns a dispatcher with every command kind bound to this
// backend's executors.
func (f *Fake) Dispatcher() *Dispatcher {
	d := NewDispatcher(WithLogger(f.logger))
	d.Register(KindUpdateRoutingRules, f.updateRoutingRules)
	d.Register(KindUpdateErrorPage, f.updateErrorPage)
	d.Register(KindCreateInvalidation, f.createInvalidation)
	d.Register(KindDeleteKeys, f.deleteKeys)
	d.Register(KindCopyKeys, f.copyKeys)
	d.Register(KindListKeys, f.listKeys)
	d.Register(KindDownloadKey, f.downloadKey)
	d.Register(KindUploadKey, f.uploadKey)
	registerComposites(d, f.fs)
	return d
}

func (f *Fake) updateRoutingRules(_ context.Context, _ *Dispatcher, cmd Command) (any, error) {
	c := cmd.(UpdateRoutingRules)
	f.state = f.state.withRoutingRules(c.Bucket, slices.Clone(c.Rules))
	return nil, nil
}

// updateErrorPage always writes the new key, unlike the real executor which
// skips the write when nothing changes. The return contract, the only
// cross-backend observable, is identical: "" when unchanged, otherwise the
// previous key.
func (f *Fake) updateErrorPage(_ context.Context, _ *Dispatcher, cmd Command) (any, error) {
	c := cmd.(UpdateErrorPage)

	previous := f.state.ErrorKey(c.Bucket)
	next := c.ErrorKey()
	f.state = f.state.withErrorKey(c.Bucket, next)

	if previous == next {
		return "", nil
	}
	return previous, nil
}

func (f *Fake) createInvalidation(_ context.Context, _ *Dispatcher, cmd Command) (any, error) {
	c := cmd.(CreateInvalidation)
	f.state = f.state.withInvalidation(c)
	return nil, nil
}

func (f *Fake) deleteKeys(_ context.Context, _ *Dispatcher, cmd Command) (any, error) {
	c := cmd.(DeleteKeys)

	fullKeys := make([]string, 0, len(c.Keys))
	for _, key := range c.Keys {
		fullKeys = append(fullKeys, c.Prefix+key)
	}
	f.state = f.state.withoutObjects(c.Bucket, fullKeys)
	return nil, nil
}

// copyKeys copies stored objects verbatim: Content and the ContentType tag
// both travel. The real executor instead rewrites the destination
// Content-Type from the published table at copy time. The snapshot advances
// per key, so a missing source mid-way leaves earlier copies applied.
func (f *Fake) copyKeys(_ context.Context, _ *Dispatcher, cmd Command) (any, error) {
	c := cmd.(CopyKeys)
	op := string(KindCopyKeys)

	for _, key := range c.Keys {
		sourceKey := c.SourcePrefix + key
		obj, ok := f.state.object(c.SourceBucket, sourceKey)
		if !ok {
			return nil, errors.NewObjectError(op, c.SourceBucket, sourceKey, errors.ErrObjectNotFound)
		}
		f.state = f.state.withObject(c.DestinationBucket, c.DestinationPrefix+key, obj)
	}
	return nil, nil
}

func (f *Fake) listKeys(_ context.Context, _ *Dispatcher, cmd Command) (any, error) {
	c := cmd.(ListKeys)

	seen := make(map[string]struct{})
	for key := range f.state.buckets[c.Bucket] {
		if strings.HasPrefix(key, c.Prefix) {
			seen[strings.TrimPrefix(key, c.Prefix)] = struct{}{}
		}
	}

	suffixes := make([]string, 0, len(seen))
	for suffix := range seen {
		suffixes = append(suffixes, suffix)
	}
	sort.Strings(suffixes)

	return suffixes, nil
}

func (f *Fake) downloadKey(_ context.Context, _ *Dispatcher, cmd Command) (any, error) {
	c := cmd.(DownloadKey)
	op := string(KindDownloadKey)

	obj, ok := f.state.object(c.SourceBucket, c.SourceKey)
	if !ok {
		return nil, errors.NewObjectError(op, c.SourceBucket, c.SourceKey, errors.ErrObjectNotFound)
	}

	if err := f.fs.WriteFile(c.TargetPath, obj.Content, 0o644); err != nil {
		return nil, errors.NewObjectError(op, c.SourceBucket, c.SourceKey, err)
	}
	return nil, nil
}

func (f *Fake) uploadKey(_ context.Context, _ *Dispatcher, cmd Command) (any, error) {
	c := cmd.(UploadKey)
	op := string(KindUploadKey)

	content, err := f.fs.ReadFile(c.File)
	if err != nil {
		return nil, errors.NewObjectError(op, c.TargetBucket, c.TargetKey, err)
	}

	f.state = f.state.withObject(c.TargetBucket, c.TargetKey, Object{
		Content:     content,
		ContentType: c.ContentType,
	})
	return nil, nil
}
