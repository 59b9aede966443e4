// HTTP-хендлеры каталога товаров
package api

import (
	"errors"
	"mime/multipart"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	srvmodels "github.com/IvanChernomyrdin/go-shop-api/internal/server/models"
	"github.com/IvanChernomyrdin/go-shop-api/internal/server/service"
	"github.com/IvanChernomyrdin/go-shop-api/internal/server/validate"
	serr "github.com/IvanChernomyrdin/go-shop-api/internal/shared/errors"
	"github.com/IvanChernomyrdin/go-shop-api/internal/shared/models"
)

// сколько multipart держим в памяти, остальное ParseMultipartForm пишет во временные файлы
const multipartMemory = 1 << 20

// Store создаёт товар из multipart-формы.
//
// Поля: name, price (число), size и файл image (не больше лимита).
// Файл сохраняется до валидации полей; при ошибке валидации он удаляется.
//
// @Summary      Create product
// @Description  Токен роли admin нужен только при auth.admin_only_catalog.
// @Tags         products
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        name  formData string true "Product name"
// @Param        price formData number true "Price"
// @Param        size  formData string true "Size"
// @Param        image formData file   true "Image (max 5 MB)"
// @Success      201 {object} models.Product
// @Failure      401 {object} models.ErrorResponse "Unauthorized"
// @Failure      403 {object} models.ErrorResponse "Forbidden"
// @Failure      413 {object} models.ErrorResponse "File too large"
// @Failure      422 {object} models.ErrorResponse "Validation failed"
// @Failure      500 {object} models.ErrorResponse "Internal server error"
// @Router       /products [post]
func (h *Handler) Store(w http.ResponseWriter, r *http.Request) {
	in, img, cleanup, err := h.parseProductForm(w, r)
	if err != nil {
		h.writeServiceError(w, r, "store product", err)
		return
	}
	defer cleanup()

	p, err := h.Svc.Products.Store(r.Context(), in, img)
	if err != nil {
		h.writeServiceError(w, r, "store product", err)
		return
	}

	writeJSON(w, http.StatusCreated, toProduct(p))
}

// Index возвращает все товары, новые первыми.
//
// @Summary      List products
// @Tags         products
// @Produce      json
// @Success      200 {array} models.Product
// @Router       /products [get]
func (h *Handler) Index(w http.ResponseWriter, r *http.Request) {
	list, err := h.Svc.Products.List(r.Context())
	if err != nil {
		h.writeServiceError(w, r, "list products", err)
		return
	}

	out := make([]models.Product, 0, len(list))
	for _, p := range list {
		out = append(out, toProduct(p))
	}
	writeJSON(w, http.StatusOK, out)
}

// Show возвращает товар по id.
//
// @Summary      Get product
// @Tags         products
// @Produce      json
// @Param        id path string true "Product ID"
// @Success      200 {object} models.Product
// @Failure      404 {object} models.ErrorResponse "Not found"
// @Router       /products/{id} [get]
func (h *Handler) Show(w http.ResponseWriter, r *http.Request) {
	id, err := productID(r)
	if err != nil {
		h.writeServiceError(w, r, "get product", err)
		return
	}

	p, err := h.Svc.Products.Get(r.Context(), id)
	if err != nil {
		h.writeServiceError(w, r, "get product", err)
		return
	}

	writeJSON(w, http.StatusOK, toProduct(p))
}

// Update перезаписывает товар. Файл image необязателен.
//
// @Summary      Update product
// @Tags         products
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        id    path     string true  "Product ID"
// @Param        name  formData string true  "Product name"
// @Param        price formData number true  "Price"
// @Param        size  formData string true  "Size"
// @Param        image formData file   false "New image (max 5 MB)"
// @Success      200 {object} models.Product
// @Failure      404 {object} models.ErrorResponse "Not found"
// @Failure      413 {object} models.ErrorResponse "File too large"
// @Failure      422 {object} models.ErrorResponse "Validation failed"
// @Router       /products/{id} [put]
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := productID(r)
	if err != nil {
		h.writeServiceError(w, r, "update product", err)
		return
	}

	in, img, cleanup, err := h.parseProductForm(w, r)
	if err != nil {
		h.writeServiceError(w, r, "update product", err)
		return
	}
	defer cleanup()

	p, err := h.Svc.Products.Update(r.Context(), id, in, img)
	if err != nil {
		h.writeServiceError(w, r, "update product", err)
		return
	}

	writeJSON(w, http.StatusOK, toProduct(p))
}

// Destroy удаляет товар и его изображение.
//
// @Summary      Delete product
// @Tags         products
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Product ID"
// @Success      200 {object} models.Product
// @Failure      404 {object} models.ErrorResponse "Not found"
// @Router       /products/{id} [delete]
func (h *Handler) Destroy(w http.ResponseWriter, r *http.Request) {
	id, err := productID(r)
	if err != nil {
		h.writeServiceError(w, r, "delete product", err)
		return
	}

	p, err := h.Svc.Products.Delete(r.Context(), id)
	if err != nil {
		h.writeServiceError(w, r, "delete product", err)
		return
	}

	writeJSON(w, http.StatusOK, toProduct(p))
}

// parseProductForm разбирает multipart с ограничением размера тела.
// img == nil, если файла нет. cleanup удаляет временные файлы multipart.
func (h *Handler) parseProductForm(w http.ResponseWriter, r *http.Request) (validate.Product, *service.Upload, func(), error) {
	noop := func() {}

	r.Body = http.MaxBytesReader(w, r.Body, h.Limits.MaxUploadBytes+multipartOverhead)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return validate.Product{}, nil, noop, serr.ErrFileTooLarge
		}
		return validate.Product{}, nil, noop, serr.ErrInvalidInput
	}
	cleanup := func() { _ = r.MultipartForm.RemoveAll() }

	in := validate.Product{
		Name:  r.FormValue("name"),
		Price: r.FormValue("price"),
		Size:  r.FormValue("size"),
	}

	file, hdr, err := r.FormFile("image")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return in, nil, cleanup, nil
		}
		cleanup()
		return validate.Product{}, nil, noop, serr.ErrInvalidInput
	}

	closeAll := func() {
		_ = file.Close()
		cleanup()
	}
	return in, &service.Upload{Filename: filename(hdr), Content: file}, closeAll, nil
}

func filename(hdr *multipart.FileHeader) string {
	if hdr == nil {
		return ""
	}
	return hdr.Filename
}

func productID(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		return uuid.Nil, serr.ErrNotFound
	}
	return id, nil
}

func toProduct(p srvmodels.Product) models.Product {
	return models.Product{
		ID:        p.ID.String(),
		Name:      p.Name,
		Price:     p.Price,
		Size:      p.Size,
		Image:     p.Image,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}
