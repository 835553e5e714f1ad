package service

import (
	"testing"

	"github.com/hjkwon/paymap-backend/internal/app/model"
	"github.com/hjkwon/paymap-backend/internal/app/repository"
	"github.com/hjkwon/paymap-backend/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupCommentServiceTest(t *testing.T) (CommentService, *gorm.DB) {
	testDB, err := db.SetupTestDB(t)
	require.NoError(t, err)

	commentRepo := repository.NewCommentRepository(testDB)
	storeRepo := repository.NewStoreRepository(testDB)
	trustService := NewTrustService(testDB)

	return NewCommentService(commentRepo, storeRepo, trustService), testDB
}

func intPtr(n int) *int { return &n }

func TestCommentService_CreateComment(t *testing.T) {
	commentService, testDB := setupCommentServiceTest(t)
	user := createTestUser(t, testDB, "commenter@example.com")
	store := createTestStore(t, testDB, user.ID, "댓글카페")

	t.Run("Comment without payment flag leaves stats untouched", func(t *testing.T) {
		comment, statsStale, err := commentService.CreateComment(
			store.ID, user.ID,
			CreateCommentInput{Content: "분위기 좋아요", Rating: intPtr(5)},
		)
		require.NoError(t, err)
		require.NotNil(t, comment)
		assert.False(t, statsStale)

		got := reloadStore(t, testDB, store.ID)
		assert.Equal(t, 0, got.VerificationCount)
		assert.Equal(t, model.NeutralTrustScore, got.TrustScore)
		assert.Nil(t, got.LastVerifiedAt)
	})

	t.Run("Comment with payment flag recomputes stats", func(t *testing.T) {
		_, statsStale, err := commentService.CreateComment(
			store.ID, user.ID,
			CreateCommentInput{Content: "비플페이 잘 됩니다", PaymentSuccess: boolPtr(true)},
		)
		require.NoError(t, err)
		assert.False(t, statsStale)

		got := reloadStore(t, testDB, store.ID)
		assert.Equal(t, 1, got.VerificationCount)
		assert.Equal(t, 100, got.TrustScore)
	})

	t.Run("Rating out of range", func(t *testing.T) {
		_, _, err := commentService.CreateComment(
			store.ID, user.ID,
			CreateCommentInput{Content: "별점 테스트", Rating: intPtr(6)},
		)
		assert.ErrorIs(t, err, ErrInvalidCommentRating)
	})

	t.Run("Missing store", func(t *testing.T) {
		_, _, err := commentService.CreateComment(
			99999, user.ID,
			CreateCommentInput{Content: "유령 가게"},
		)
		assert.ErrorIs(t, err, ErrStoreNotFound)
	})
}

func TestCommentService_UpdateComment(t *testing.T) {
	commentService, testDB := setupCommentServiceTest(t)
	author := createTestUser(t, testDB, "c-author@example.com")
	stranger := createTestUser(t, testDB, "c-stranger@example.com")
	store := createTestStore(t, testDB, author.ID, "수정카페")

	comment, _, err := commentService.CreateComment(
		store.ID, author.ID,
		CreateCommentInput{Content: "처음엔 됐어요", PaymentSuccess: boolPtr(true)},
	)
	require.NoError(t, err)
	require.Equal(t, 100, reloadStore(t, testDB, store.ID).TrustScore)

	t.Run("Only the author can edit", func(t *testing.T) {
		newContent := "몰래 수정"
		_, _, err := commentService.UpdateComment(comment.ID, stranger.ID, UpdateCommentInput{
			Content: &newContent,
		})
		assert.ErrorIs(t, err, ErrCommentAccessDenied)
	})

	t.Run("Flipping payment flag recomputes stats", func(t *testing.T) {
		updated, statsStale, err := commentService.UpdateComment(comment.ID, author.ID, UpdateCommentInput{
			PaymentSuccess: boolPtr(false),
		})
		require.NoError(t, err)
		assert.False(t, statsStale)
		require.NotNil(t, updated.PaymentSuccess)
		assert.False(t, *updated.PaymentSuccess)

		got := reloadStore(t, testDB, store.ID)
		assert.Equal(t, 1, got.VerificationCount)
		assert.Equal(t, 0, got.TrustScore)
	})

	t.Run("Content-only edit does not recompute", func(t *testing.T) {
		before := reloadStore(t, testDB, store.ID)
		newContent := "내용만 수정"
		_, _, err := commentService.UpdateComment(comment.ID, author.ID, UpdateCommentInput{
			Content: &newContent,
		})
		require.NoError(t, err)

		after := reloadStore(t, testDB, store.ID)
		assert.Equal(t, before.TrustScore, after.TrustScore)
		assert.Equal(t, before.VerificationCount, after.VerificationCount)
	})

	t.Run("Clearing payment flag removes the signal", func(t *testing.T) {
		updated, _, err := commentService.UpdateComment(comment.ID, author.ID, UpdateCommentInput{
			ClearPayment: true,
		})
		require.NoError(t, err)
		assert.Nil(t, updated.PaymentSuccess)

		got := reloadStore(t, testDB, store.ID)
		assert.Equal(t, 0, got.VerificationCount)
		assert.Equal(t, model.NeutralTrustScore, got.TrustScore)
	})
}

func TestCommentService_DeleteComment(t *testing.T) {
	commentService, testDB := setupCommentServiceTest(t)
	author := createTestUser(t, testDB, "c-del@example.com")
	stranger := createTestUser(t, testDB, "c-del2@example.com")
	store := createTestStore(t, testDB, author.ID, "삭제카페")

	t.Run("Stranger cannot delete", func(t *testing.T) {
		comment, _, err := commentService.CreateComment(
			store.ID, author.ID,
			CreateCommentInput{Content: "삭제 방어", PaymentSuccess: boolPtr(true)},
		)
		require.NoError(t, err)

		_, err = commentService.DeleteComment(comment.ID, stranger.ID, false)
		assert.ErrorIs(t, err, ErrCommentAccessDenied)
	})

	t.Run("Deleting flagged comment recomputes stats", func(t *testing.T) {
		comment, _, err := commentService.CreateComment(
			store.ID, author.ID,
			CreateCommentInput{Content: "집계 반영 댓글", PaymentSuccess: boolPtr(false)},
		)
		require.NoError(t, err)

		_, err = commentService.DeleteComment(comment.ID, author.ID, false)
		require.NoError(t, err)

		got := reloadStore(t, testDB, store.ID)
		// 남은 신호는 위 방어 테스트의 성공 댓글 1건
		assert.Equal(t, 1, got.VerificationCount)
		assert.Equal(t, 100, got.TrustScore)
	})

	t.Run("Admin can delete others' comments", func(t *testing.T) {
		comment, _, err := commentService.CreateComment(
			store.ID, author.ID,
			CreateCommentInput{Content: "관리자 삭제 대상"},
		)
		require.NoError(t, err)

		_, err = commentService.DeleteComment(comment.ID, stranger.ID, true)
		require.NoError(t, err)
	})
}
