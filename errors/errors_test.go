package errors

import (
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorFormat(t *testing.T) {
	cause := stderrors.New("connection reset")

	tests := []struct {
		name string
		err  *Error
		want string
	}{
		{
			name: "bucket and key",
			err:  NewObjectError("UploadKey", "docs.example.com", "index.html", cause),
			want: "sitepub.UploadKey docs.example.com/index.html: connection reset",
		},
		{
			name: "bucket only",
			err:  NewBucketError("ListKeys", "docs.example.com", cause),
			want: "sitepub.ListKeys bucket docs.example.com: connection reset",
		},
		{
			name: "key only",
			err:  NewError("ReadKey", cause).WithKey("index.html"),
			want: "sitepub.ReadKey object index.html: connection reset",
		},
		{
			name: "operation only",
			err:  NewError("Dispatch", cause),
			want: "sitepub.Dispatch: connection reset",
		},
		{
			name: "with message",
			err:  NewError("CreateInvalidation", ErrDistributionNotFound).WithMessage("cname docs.example.com"),
			want: "sitepub.CreateInvalidation: cname docs.example.com: sitepub: distribution not found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestErrorUnwrap(t *testing.T) {
	err := NewObjectError("DownloadKey", "docs.example.com", "missing.html", ErrObjectNotFound)

	require.ErrorIs(t, err, ErrObjectNotFound)
	assert.Equal(t, ErrObjectNotFound, err.Unwrap())
}

func TestWithMessagePreservesSentinel(t *testing.T) {
	err := NewError("ListKeys", ErrBucketNotFound).
		WithBucket("docs.example.com").
		WithMessage("listing release keys")

	assert.ErrorIs(t, err, ErrBucketNotFound)
	assert.True(t, IsBucketNotFound(err))
}

func TestIsHelpers(t *testing.T) {
	plain := stderrors.New("something else")

	tests := []struct {
		name    string
		err     error
		checker func(error) bool
		want    bool
	}{
		{"object not found", NewError("ReadKey", ErrObjectNotFound), IsObjectNotFound, true},
		{"object not found mismatch", plain, IsObjectNotFound, false},
		{"bucket not found", NewError("ListKeys", ErrBucketNotFound), IsBucketNotFound, true},
		{"distribution not found", NewError("CreateInvalidation", ErrDistributionNotFound), IsDistributionNotFound, true},
		{"unsupported command", NewError("ListKeys", ErrUnsupportedCommand), IsUnsupportedCommand, true},
		{"invalid command", NewError("Dispatch", ErrInvalidCommand), IsInvalidCommand, true},
		{"access denied", NewError("UploadKey", ErrAccessDenied), IsAccessDenied, true},
		{"nil error", nil, IsObjectNotFound, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.checker(tt.err))
		})
	}
}

func TestIsNotFound(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"object", NewError("ReadKey", ErrObjectNotFound), true},
		{"bucket", NewError("ListKeys", ErrBucketNotFound), true},
		{"distribution", NewError("CreateInvalidation", ErrDistributionNotFound), true},
		{"access denied", NewError("UploadKey", ErrAccessDenied), false},
		{"plain", stderrors.New("boom"), false},
		{"nil", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsNotFound(tt.err))
		})
	}
}
