package domain

import (
	"context"
	"errors"
	"strings"

	"github.com/versestream/backend/internal/domain/challenge"
	"github.com/versestream/backend/internal/entity"
	"github.com/versestream/backend/internal/model"
	"github.com/versestream/backend/internal/repository"
	"github.com/versestream/backend/pkg/errorx"
	"github.com/versestream/backend/pkg/xcontext"
	"gorm.io/gorm"
)

const (
	defaultCollectionColor = "#0A84FF"
	favoritesCollection    = "favorites"
)

type SocialDomain interface {
	Like(context.Context, *model.LikeRequest) (*model.LikeResponse, error)
	Save(context.Context, *model.SaveRequest) (*model.SaveResponse, error)
	CheckLike(context.Context, *model.CheckLikeRequest) (*model.CheckLikeResponse, error)
	CheckSave(context.Context, *model.CheckSaveRequest) (*model.CheckSaveResponse, error)
	GetLikedVerses(context.Context, *model.GetLikedVersesRequest) (*model.GetLikedVersesResponse, error)
	GetSavedVerses(context.Context, *model.GetSavedVersesRequest) (*model.GetSavedVersesResponse, error)
	GetLibrary(context.Context, *model.GetLibraryRequest) (*model.GetLibraryResponse, error)
	CreateCollection(context.Context, *model.CreateCollectionRequest) (*model.CreateCollectionResponse, error)
	AddToCollection(context.Context, *model.AddToCollectionRequest) (*model.AddToCollectionResponse, error)
}

type socialDomain struct {
	verseRepo      repository.VerseRepository
	likeRepo       repository.LikeRepository
	saveRepo       repository.SaveRepository
	collectionRepo repository.CollectionRepository
	recommender    *recommender
	tracker        *challenge.Tracker
}

func NewSocialDomain(
	verseRepo repository.VerseRepository,
	likeRepo repository.LikeRepository,
	saveRepo repository.SaveRepository,
	collectionRepo repository.CollectionRepository,
	dailyActionRepo repository.DailyActionRepository,
) *socialDomain {
	return &socialDomain{
		verseRepo:      verseRepo,
		likeRepo:       likeRepo,
		saveRepo:       saveRepo,
		collectionRepo: collectionRepo,
		recommender:    newRecommender(verseRepo),
		tracker:        challenge.NewTracker(dailyActionRepo),
	}
}

func (d *socialDomain) checkVerse(ctx context.Context, verseID int64) error {
	if verseID <= 0 {
		return errorx.New(errorx.BadRequest, "Missing verse_id")
	}

	if _, err := d.verseRepo.GetByID(ctx, verseID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errorx.New(errorx.NotFound, "Verse not found")
		}

		xcontext.Logger(ctx).Errorf("Cannot get verse: %v", err)
		return errorx.Unknown
	}

	return nil
}

func (d *socialDomain) Like(ctx context.Context, req *model.LikeRequest) (*model.LikeResponse, error) {
	if err := d.checkVerse(ctx, req.VerseID); err != nil {
		return nil, err
	}

	userID := xcontext.RequestUserID(ctx)
	deleted, err := d.likeRepo.Delete(ctx, userID, req.VerseID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot delete like: %v", err)
		return nil, errorx.Unknown
	}

	if deleted > 0 {
		return &model.LikeResponse{Liked: false}, nil
	}

	err = d.likeRepo.Create(ctx, &entity.Like{UserID: userID, VerseID: req.VerseID})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create like: %v", err)
		return nil, errorx.Unknown
	}

	d.tracker.Record(ctx, userID, entity.ActionLike, req.VerseID)

	rec, err := d.recommender.Recommend(ctx, userID, nil)
	if err != nil {
		xcontext.Logger(ctx).Warnf("Cannot generate recommendation after like: %v", err)
	}

	return &model.LikeResponse{Liked: true, Recommendation: rec}, nil
}

func (d *socialDomain) Save(ctx context.Context, req *model.SaveRequest) (*model.SaveResponse, error) {
	if err := d.checkVerse(ctx, req.VerseID); err != nil {
		return nil, err
	}

	userID := xcontext.RequestUserID(ctx)
	deleted, err := d.saveRepo.Delete(ctx, userID, req.VerseID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot delete save: %v", err)
		return nil, errorx.Unknown
	}

	if deleted > 0 {
		return &model.SaveResponse{Saved: false}, nil
	}

	err = d.saveRepo.Create(ctx, &entity.Save{UserID: userID, VerseID: req.VerseID})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create save: %v", err)
		return nil, errorx.Unknown
	}

	d.tracker.Record(ctx, userID, entity.ActionSave, req.VerseID)
	return &model.SaveResponse{Saved: true}, nil
}

func (d *socialDomain) CheckLike(
	ctx context.Context, req *model.CheckLikeRequest,
) (*model.CheckLikeResponse, error) {
	userID := xcontext.RequestUserID(ctx)
	if userID == 0 {
		return &model.CheckLikeResponse{Liked: false}, nil
	}

	liked, err := d.likeRepo.Exists(ctx, userID, req.VerseID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot check like: %v", err)
		return nil, errorx.Unknown
	}

	return &model.CheckLikeResponse{Liked: liked}, nil
}

func (d *socialDomain) CheckSave(
	ctx context.Context, req *model.CheckSaveRequest,
) (*model.CheckSaveResponse, error) {
	userID := xcontext.RequestUserID(ctx)
	if userID == 0 {
		return &model.CheckSaveResponse{Saved: false}, nil
	}

	saved, err := d.saveRepo.Exists(ctx, userID, req.VerseID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot check save: %v", err)
		return nil, errorx.Unknown
	}

	return &model.CheckSaveResponse{Saved: saved}, nil
}

func toVerseSummaries(verses []repository.EngagedVerse) []model.VerseSummary {
	result := []model.VerseSummary{}
	for _, v := range verses {
		result = append(result, model.VerseSummary{ID: v.ID, Ref: v.Reference, Book: v.Book})
	}

	return result
}

func (d *socialDomain) GetLikedVerses(
	ctx context.Context, req *model.GetLikedVersesRequest,
) (*model.GetLikedVersesResponse, error) {
	verses, err := d.likeRepo.GetVerses(ctx, xcontext.RequestUserID(ctx))
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get liked verses: %v", err)
		return nil, errorx.Unknown
	}

	resp := model.GetLikedVersesResponse(toVerseSummaries(verses))
	return &resp, nil
}

func (d *socialDomain) GetSavedVerses(
	ctx context.Context, req *model.GetSavedVersesRequest,
) (*model.GetSavedVersesResponse, error) {
	verses, err := d.saveRepo.GetVerses(ctx, xcontext.RequestUserID(ctx))
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get saved verses: %v", err)
		return nil, errorx.Unknown
	}

	resp := model.GetSavedVersesResponse(toVerseSummaries(verses))
	return &resp, nil
}

func toLibraryVerse(v repository.EngagedVerse, liked bool) model.LibraryVerse {
	result := model.LibraryVerse{
		ID:     v.ID,
		Ref:    v.Reference,
		Text:   v.Text,
		Trans:  v.Translation,
		Source: v.Source,
		Book:   v.Book,
	}

	engagedAt := v.EngagedAt
	if liked {
		result.LikedAt = &engagedAt
	} else {
		result.SavedAt = &engagedAt
	}

	return result
}

func (d *socialDomain) GetLibrary(
	ctx context.Context, req *model.GetLibraryRequest,
) (*model.GetLibraryResponse, error) {
	resp := &model.GetLibraryResponse{
		Liked:       []model.LibraryVerse{},
		Saved:       []model.LibraryVerse{},
		Collections: []model.Collection{},
	}

	userID := xcontext.RequestUserID(ctx)
	if userID == 0 {
		return resp, nil
	}

	liked, err := d.likeRepo.GetVerses(ctx, userID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get liked verses: %v", err)
		return nil, errorx.Unknown
	}

	saved, err := d.saveRepo.GetVerses(ctx, userID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get saved verses: %v", err)
		return nil, errorx.Unknown
	}

	collections, err := d.collectionRepo.GetByUserID(ctx, userID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get collections: %v", err)
		return nil, errorx.Unknown
	}

	for _, v := range liked {
		resp.Liked = append(resp.Liked, toLibraryVerse(v, true))
	}

	for _, v := range saved {
		resp.Saved = append(resp.Saved, toLibraryVerse(v, false))
	}

	for _, c := range collections {
		verses, err := d.collectionRepo.GetVerses(ctx, c.ID)
		if err != nil {
			xcontext.Logger(ctx).Errorf("Cannot get verses of collection %d: %v", c.ID, err)
			return nil, errorx.Unknown
		}

		collection := model.Collection{
			ID:     c.ID,
			Name:   c.Name,
			Color:  c.Color,
			Count:  len(verses),
			Verses: []model.CollectionVerse{},
		}
		for _, v := range verses {
			collection.Verses = append(collection.Verses, model.CollectionVerse{
				ID: v.ID, Ref: v.Reference, Text: v.Text,
			})
		}

		if strings.EqualFold(c.Name, favoritesCollection) && resp.FavoritesCount == 0 {
			resp.FavoritesCount = collection.Count
		}

		resp.Collections = append(resp.Collections, collection)
	}

	resp.LikedCount = len(resp.Liked)
	resp.SavedCount = len(resp.Saved)
	return resp, nil
}

func (d *socialDomain) CreateCollection(
	ctx context.Context, req *model.CreateCollectionRequest,
) (*model.CreateCollectionResponse, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, errorx.New(errorx.BadRequest, "Name required")
	}

	color := strings.TrimSpace(req.Color)
	if color == "" {
		color = defaultCollectionColor
	}

	collection := &entity.Collection{
		UserID: xcontext.RequestUserID(ctx),
		Name:   name,
		Color:  color,
	}
	if err := d.collectionRepo.Create(ctx, collection); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create collection: %v", err)
		return nil, errorx.Unknown
	}

	return &model.CreateCollectionResponse{
		ID:     collection.ID,
		Name:   collection.Name,
		Color:  collection.Color,
		Count:  0,
		Verses: []model.CollectionVerse{},
	}, nil
}

func (d *socialDomain) AddToCollection(
	ctx context.Context, req *model.AddToCollectionRequest,
) (*model.AddToCollectionResponse, error) {
	if req.CollectionID <= 0 || req.VerseID <= 0 {
		return nil, errorx.New(errorx.BadRequest, "Missing collection_id or verse_id")
	}

	collection, err := d.collectionRepo.GetByID(ctx, req.CollectionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Collection not found")
		}

		xcontext.Logger(ctx).Errorf("Cannot get collection: %v", err)
		return nil, errorx.Unknown
	}

	if collection.UserID != xcontext.RequestUserID(ctx) {
		return nil, errorx.New(errorx.PermissionDenied, "Not your collection")
	}

	exists, err := d.collectionRepo.HasVerse(ctx, collection.ID, req.VerseID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot check collection verse: %v", err)
		return nil, errorx.Unknown
	}

	if exists {
		return nil, errorx.New(errorx.AlreadyExists, "Already in collection")
	}

	err = d.collectionRepo.AddVerse(ctx, &entity.VerseCollection{
		CollectionID: collection.ID,
		VerseID:      req.VerseID,
	})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot add verse to collection: %v", err)
		return nil, errorx.Unknown
	}

	return &model.AddToCollectionResponse{Success: true}, nil
}
