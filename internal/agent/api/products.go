package api

import (
	"bytes"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"

	sharedModels "github.com/IvanChernomyrdin/go-shop-api/internal/shared/models"
)

// ProductForm — поля multipart-формы товара.
//
// Price передаётся строкой как есть, проверку числа делает сервер.
// ImagePath — путь к локальному файлу; пустой при обновлении оставляет старую картинку.
type ProductForm struct {
	Name      string
	Price     string
	Size      string
	ImagePath string
}

// CreateProduct создаёт товар.
//
//	POST /products (multipart/form-data)
func (c *Client) CreateProduct(accessToken string, form ProductForm) (sharedModels.Product, error) {
	var resp sharedModels.Product
	err := c.sendMultipart(http.MethodPost, "/products", form, &resp, accessToken)
	return resp, err
}

// UpdateProduct обновляет товар.
//
//	PUT /products/{id} (multipart/form-data)
func (c *Client) UpdateProduct(accessToken, id string, form ProductForm) (sharedModels.Product, error) {
	var resp sharedModels.Product
	err := c.sendMultipart(http.MethodPut, "/products/"+url.PathEscape(id), form, &resp, accessToken)
	return resp, err
}

// ListProducts возвращает каталог, новые сверху.
func (c *Client) ListProducts() ([]sharedModels.Product, error) {
	var resp []sharedModels.Product
	err := c.GetJSON("/products", &resp, "")
	return resp, err
}

// GetProduct возвращает товар по id.
func (c *Client) GetProduct(id string) (sharedModels.Product, error) {
	var resp sharedModels.Product
	err := c.GetJSON("/products/"+url.PathEscape(id), &resp, "")
	return resp, err
}

// DeleteProduct удаляет товар и возвращает удалённую запись.
func (c *Client) DeleteProduct(accessToken, id string) (sharedModels.Product, error) {
	var resp sharedModels.Product
	err := c.DeleteJSON("/products/"+url.PathEscape(id), &resp, accessToken)
	return resp, err
}

// sendMultipart собирает форму в памяти: файл не больше 5 МБ.
func (c *Client) sendMultipart(method, path string, form ProductForm, resp any, accessToken string) error {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	fields := []struct{ k, v string }{
		{"name", form.Name},
		{"price", form.Price},
		{"size", form.Size},
	}
	for _, f := range fields {
		if err := mw.WriteField(f.k, f.v); err != nil {
			return err
		}
	}

	if form.ImagePath != "" {
		f, err := os.Open(form.ImagePath)
		if err != nil {
			return err
		}
		defer f.Close()

		part, err := mw.CreateFormFile("image", filepath.Base(form.ImagePath))
		if err != nil {
			return err
		}
		if _, err := io.Copy(part, f); err != nil {
			return err
		}
	}

	if err := mw.Close(); err != nil {
		return err
	}

	return c.do(method, path, &buf, mw.FormDataContentType(), resp, accessToken)
}
