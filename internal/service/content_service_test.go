package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"herbal-store/internal/model"
	"herbal-store/internal/security"
)

func TestContentKeyPattern(t *testing.T) {
	t.Parallel()

	valid := []string{"hero", "about-us", "footer_note", "faq-2", "a1-b2_c3"}
	for _, key := range valid {
		require.True(t, contentKeyPattern.MatchString(key), "key %q", key)
	}

	invalid := []string{"", "-lead", "trail-", "two--dashes", "Has-Upper", "spa ce", "dot.key"}
	for _, key := range invalid {
		require.False(t, contentKeyPattern.MatchString(key), "key %q", key)
	}
}

func TestContentPutRejectsBadKey(t *testing.T) {
	t.Parallel()

	svc := NewContentService(nil, security.NewSanitizer())

	_, err := svc.Put(context.Background(), "not a key", model.ContentBlockRequest{Title: "x", Body: "y"})
	require.Error(t, err)

	_, err = svc.Put(context.Background(), "", model.ContentBlockRequest{})
	require.Error(t, err)
}
