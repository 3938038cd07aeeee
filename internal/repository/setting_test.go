package repository

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/versestream/backend/internal/entity"
	"github.com/versestream/backend/pkg/testutil"
	"gorm.io/gorm"
)

func Test_settingRepository(t *testing.T) {
	ctx := testutil.MockContext()
	repo := NewSettingRepository()

	value, err := repo.Get(ctx, entity.SettingVerseInterval)
	require.NoError(t, err)
	require.Equal(t, "60", value)

	require.NoError(t, repo.Set(ctx, entity.SettingVerseInterval, "120"))
	value, err = repo.Get(ctx, entity.SettingVerseInterval)
	require.NoError(t, err)
	require.Equal(t, "120", value)

	_, err = repo.Get(ctx, "unknown")
	require.True(t, errors.Is(err, gorm.ErrRecordNotFound))
}
