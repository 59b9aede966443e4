package service

import (
	"context"
	"errors"
	"io"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/IvanChernomyrdin/go-shop-api/internal/server/events"
	"github.com/IvanChernomyrdin/go-shop-api/internal/server/models"
	"github.com/IvanChernomyrdin/go-shop-api/internal/server/validate"
	serr "github.com/IvanChernomyrdin/go-shop-api/internal/shared/errors"
)

// Upload — файл из multipart-формы.
type Upload struct {
	Filename string
	Content  io.Reader
}

// ProductsService реализует бизнес-логику каталога.
//
// Сервис:
//   - сохраняет изображение до валидации полей (как это делает multipart-загрузка);
//   - при ошибке валидации или записи в БД удаляет только что сохранённый файл;
//   - публикует события каталога, ошибки публикации только логируются.
type ProductsService struct {
	repo  ProductsRepo
	files FileStore
	pub   EventPublisher
	log   *zap.Logger
}

// NewProductsService создаёт новый ProductsService.
func NewProductsService(repo ProductsRepo, files FileStore, pub EventPublisher, log *zap.Logger) *ProductsService {
	if pub == nil {
		pub = events.NopPublisher{}
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &ProductsService{repo: repo, files: files, pub: pub, log: log}
}

// Store сохраняет изображение и создаёт товар.
//
// Ошибки:
//   - ErrFileRequired — файла нет;
//   - ErrFileTooLarge — файл больше лимита;
//   - ErrValidation — поля не прошли проверку (файл удалён);
//   - ошибка удаления файла, если удалить его не получилось.
func (s *ProductsService) Store(ctx context.Context, in validate.Product, img *Upload) (models.Product, error) {
	if img == nil {
		return models.Product{}, serr.ErrFileRequired
	}

	image, err := s.files.Save(ctx, img.Filename, img.Content)
	if err != nil {
		return models.Product{}, err
	}

	price, err := s.checkFields(ctx, in, image)
	if err != nil {
		return models.Product{}, err
	}

	p, err := s.repo.Create(ctx, models.Product{
		Name:  in.Name,
		Price: price,
		Size:  in.Size,
		Image: image,
	})
	if err != nil {
		s.discard(ctx, image)
		return models.Product{}, err
	}

	s.publish(ctx, events.ProductCreated, p)
	return p, nil
}

// List возвращает каталог, новые товары первыми.
func (s *ProductsService) List(ctx context.Context) ([]models.Product, error) {
	return s.repo.List(ctx)
}

// Get возвращает товар по id.
func (s *ProductsService) Get(ctx context.Context, id uuid.UUID) (models.Product, error) {
	return s.repo.GetByID(ctx, id)
}

// Update перезаписывает поля товара. Если пришло новое изображение,
// оно заменяет старое, а старый файл удаляется после успешной записи.
func (s *ProductsService) Update(ctx context.Context, id uuid.UUID, in validate.Product, img *Upload) (models.Product, error) {
	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return models.Product{}, err
	}

	image := current.Image
	if img != nil {
		if image, err = s.files.Save(ctx, img.Filename, img.Content); err != nil {
			return models.Product{}, err
		}
	}
	fresh := image != current.Image

	var price float64
	if fresh {
		price, err = s.checkFields(ctx, in, image)
	} else {
		price, err = parseProduct(in)
	}
	if err != nil {
		return models.Product{}, err
	}

	p, err := s.repo.Update(ctx, models.Product{
		ID:    id,
		Name:  in.Name,
		Price: price,
		Size:  in.Size,
		Image: image,
	})
	if err != nil {
		if fresh {
			s.discard(ctx, image)
		}
		return models.Product{}, err
	}

	if fresh {
		s.discard(ctx, current.Image)
	}
	s.publish(ctx, events.ProductUpdated, p)
	return p, nil
}

// Delete удаляет товар, затем его изображение.
// Если файл удалить не удалось, товар всё равно считается удалённым.
func (s *ProductsService) Delete(ctx context.Context, id uuid.UUID) (models.Product, error) {
	p, err := s.repo.Delete(ctx, id)
	if err != nil {
		return models.Product{}, err
	}

	s.discard(ctx, p.Image)
	s.publish(ctx, events.ProductDeleted, p)
	return p, nil
}

// checkFields валидирует поля формы, когда файл уже лежит на диске.
// При ошибке валидации файл удаляется; если удалить не вышло,
// наружу уходит ошибка удаления, а не ошибка валидации.
func (s *ProductsService) checkFields(ctx context.Context, in validate.Product, image string) (float64, error) {
	price, err := parseProduct(in)
	if err == nil {
		return price, nil
	}
	if rmErr := s.files.Remove(ctx, image); rmErr != nil {
		return 0, rmErr
	}
	return 0, err
}

func parseProduct(in validate.Product) (float64, error) {
	if err := validate.Struct(in); err != nil {
		return 0, err
	}
	price, err := validate.ParsePrice(in.Price)
	if err != nil {
		return 0, serr.Validation(`"price" must be a number`)
	}
	return price, nil
}

// discard удаляет файл без возврата ошибки.
func (s *ProductsService) discard(ctx context.Context, image string) {
	if image == "" {
		return
	}
	if err := s.files.Remove(ctx, image); err != nil && !errors.Is(err, serr.ErrInvalidInput) {
		s.log.Warn("failed to remove image", zap.String("image", image), zap.Error(err))
	}
}

func (s *ProductsService) publish(ctx context.Context, typ string, p models.Product) {
	if err := s.pub.Publish(ctx, events.NewProductEvent(typ, p)); err != nil {
		s.log.Error("failed to publish product event",
			zap.String("type", typ),
			zap.String("product_id", p.ID.String()),
			zap.Error(err),
		)
	}
}
