package tag

import (
	"context"

	"foodgram/domain"
	"foodgram/entities"
)

type (
	TagService interface {
		GetTags(ctx context.Context) ([]domain.TagResponse, error)
		GetTagByID(ctx context.Context, id string) (domain.TagResponse, error)
	}

	tagService struct {
		tagRepository TagRepository
	}
)

func NewTagService(tagRepository TagRepository) TagService {
	return &tagService{tagRepository: tagRepository}
}

func (s *tagService) GetTags(ctx context.Context) ([]domain.TagResponse, error) {
	tags, err := s.tagRepository.GetTags(ctx)
	if err != nil {
		return nil, err
	}

	responses := make([]domain.TagResponse, 0, len(tags))
	for _, t := range tags {
		responses = append(responses, toTagResponse(t))
	}
	return responses, nil
}

func (s *tagService) GetTagByID(ctx context.Context, id string) (domain.TagResponse, error) {
	tag, err := s.tagRepository.GetTagByID(ctx, id)
	if err != nil {
		return domain.TagResponse{}, err
	}
	return toTagResponse(tag), nil
}

func toTagResponse(tag *entities.Tag) domain.TagResponse {
	return domain.TagResponse{
		ID:    tag.ID.String(),
		Name:  tag.Name,
		Color: tag.Color,
		Slug:  tag.Slug,
	}
}
