package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/yungbote/labelvault-backend/internal/types"
)

func TestContentHashWhitespaceInsensitive(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		same bool
	}{
		{"crlf vs lf", "<document>\r\n<id/>\r\n</document>", "<document>\n<id/>\n</document>", true},
		{"bare cr vs lf", "<document>\r<id/></document>", "<document>\n<id/></document>", true},
		{"outer whitespace", "  <document/>  \n", "<document/>", true},
		{"different content", "<document a=\"1\"/>", "<document a=\"2\"/>", false},
		{"inner whitespace is significant", "<document> x </document>", "<document>x</document>", false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := ContentHash(tc.a) == ContentHash(tc.b); got != tc.same {
				t.Fatalf("hash equality: want=%v got=%v", tc.same, got)
			}
		})
	}
}

func TestContentHashShape(t *testing.T) {
	h := ContentHash("<document/>")
	if len(h) != 64 {
		t.Fatalf("hash length: want=64 got=%d", len(h))
	}
	if h != ContentHash("<document/>") {
		t.Fatal("hash is not deterministic")
	}
}

func TestRawDocumentStoreDuplicateRule(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	guid := uuid.New()
	otherGUID := uuid.New()
	const payload = "<document><id root=\"x\"/></document>"

	extID, err := env.rawDocs.Create(ctx, nil, payload, guid, nil)
	require.NoError(t, err)
	require.NotEmpty(t, extID)

	dup, err := env.rawDocs.IsDuplicate(ctx, nil, payload, guid)
	require.NoError(t, err)
	require.True(t, dup)

	// Same bytes under a different instance identity are a new submission.
	dup, err = env.rawDocs.IsDuplicate(ctx, nil, payload, otherGUID)
	require.NoError(t, err)
	require.False(t, dup)

	again, err := env.rawDocs.GetOrCreate(ctx, nil, payload, guid, nil)
	require.NoError(t, err)
	require.Equal(t, extID, again, "GetOrCreate must return the existing external id")
	require.EqualValues(t, 1, env.count(t, &types.RawDocument{}))
}

func TestRawDocumentArchiveClearsDuplicate(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	guid := uuid.New()
	const payload = "<document><id root=\"y\"/></document>"

	extID, err := env.rawDocs.Create(ctx, nil, payload, guid, nil)
	require.NoError(t, err)
	require.NoError(t, env.rawDocs.ArchiveByExternalID(ctx, nil, extID))

	dup, err := env.rawDocs.IsDuplicate(ctx, nil, payload, guid)
	require.NoError(t, err)
	require.False(t, dup, "archived rows must not count as duplicates")
}

func TestRawDocumentStoresSubmittedBytes(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	guid := uuid.New()
	const crlfPayload = "  <document>\r\n<id root=\"z\"/>\r\n</document>\r\n"

	_, err := env.rawDocs.Create(ctx, nil, crlfPayload, guid, nil)
	require.NoError(t, err)

	var row types.RawDocument
	require.NoError(t, env.db.First(&row).Error)
	// The hash is whitespace-insensitive but the stored payload is the
	// submission byte for byte.
	require.Equal(t, crlfPayload, row.RawXML)
	require.Equal(t, ContentHash("<document>\n<id root=\"z\"/>\n</document>"), row.ContentHash)
}

func TestRawDocumentExternalIDNeverRawKey(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	extID, err := env.rawDocs.Create(ctx, nil, "<document/>", uuid.New(), nil)
	require.NoError(t, err)

	var row types.RawDocument
	require.NoError(t, env.db.First(&row).Error)
	require.NotEqual(t, row.ID.String(), extID)
	require.NotContains(t, extID, "-")
}

func TestRawDocumentListPage(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := env.rawDocs.Create(ctx, nil, "<document/>", uuid.New(), nil)
		require.NoError(t, err)
	}

	rows, total, err := env.rawDocs.ListPage(ctx, nil, 0, 2)
	require.NoError(t, err)
	require.EqualValues(t, 3, total)
	require.Len(t, rows, 2)

	rows, _, err = env.rawDocs.ListPage(ctx, nil, 2, 2)
	require.NoError(t, err)
	require.Len(t, rows, 1)
}
