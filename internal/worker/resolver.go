package worker

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/png"

	"github.com/D-Sokol/schedule-bot/internal/render"
	"github.com/D-Sokol/schedule-bot/internal/repository"
	"github.com/D-Sokol/schedule-bot/internal/repository/base"
	"github.com/D-Sokol/schedule-bot/internal/store"
)

// ElementResolver находит изображения-элементы для ImagePatch.
// Явный element_id читается из бакета assets напрямую; имя сначала
// разрешается через реестр глобальных элементов в БД.
type ElementResolver struct {
	assets   store.Bucket
	elements *repository.ElementRepository
}

// NewElementResolver создаёт резолвер; elements может быть nil,
// тогда поиск по имени недоступен и считается ошибкой данных шаблона.
func NewElementResolver(assets store.Bucket, elements *repository.ElementRepository) *ElementResolver {
	return &ElementResolver{
		assets:   assets,
		elements: elements,
	}
}

// Resolve возвращает изображение по ссылке из шаблона.
// Неразрешимая ссылка — ошибка данных, а не тихий пропуск патча.
func (r *ElementResolver) Resolve(ctx context.Context, ref render.ImageRef) (image.Image, error) {
	elementID := ref.ElementID
	if elementID == "" {
		if r.elements == nil {
			return nil, render.Domainf("image %q cannot be resolved by name: registry is not available", ref.Name)
		}
		element, err := r.elements.GetByName(ctx, 0, ref.Name)
		if base.IsNotFound(err) {
			return nil, render.Domainf("there is no image named %q", ref.Name)
		}
		if err != nil {
			return nil, err
		}
		elementID = element.ElementID.String()
	}

	data, err := r.assets.Get(ctx, store.AssetKey(0, elementID))
	if errors.Is(err, store.ErrNotFound) {
		return nil, render.Domainf("image %s is not found", elementID)
	}
	if err != nil {
		return nil, err
	}

	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, render.Domainf("image %s is not a valid PNG", elementID)
	}
	return img, nil
}
