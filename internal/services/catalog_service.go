package services

import (
	"errors"
	"log"

	"ecommerce_api/internal/apperrors"
	"ecommerce_api/internal/models"
	"ecommerce_api/internal/redis"
	"ecommerce_api/internal/repository"

	"gorm.io/gorm"
)

type ProductInput struct {
	Name        string
	Description string
	Price       float64
	ImageURL    string
	CategoryID  uint
}

// ProductUpdate carries a partial update; nil fields keep current values.
type ProductUpdate struct {
	Name        *string
	Description *string
	Price       *float64
	ImageURL    *string
	CategoryID  *uint
}

type CatalogService interface {
	ListProducts() ([]models.Product, error)
	GetProduct(id uint) (*models.Product, error)
	CreateProduct(in ProductInput) (*models.Product, error)
	UpdateProduct(id uint, in ProductUpdate) (*models.Product, error)
	DeleteProduct(id uint) (*models.Product, error)
	ListCategories() ([]models.Category, error)
	CreateCategory(name string) (*models.Category, error)
	ListProductsByCategory(categoryID uint) ([]models.Product, error)
}

type catalogService struct {
	store repository.Store
	cache *redis.Client
}

// NewCatalogService builds the catalog service. cache may be nil, in which
// case every read goes straight to the database.
func NewCatalogService(store repository.Store, cache *redis.Client) CatalogService {
	return &catalogService{store: store, cache: cache}
}

func (s *catalogService) ListProducts() ([]models.Product, error) {
	if s.cache != nil {
		if products, err := s.cache.GetProductList(s.cache.ProductListKey()); err == nil {
			return products, nil
		} else if err != redis.ErrCacheMiss {
			log.Printf("product cache read failed: %v", err)
		}
	}

	products, err := s.store.Products().GetAll()
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		if err := s.cache.SetProductList(s.cache.ProductListKey(), products); err != nil {
			log.Printf("product cache write failed: %v", err)
		}
	}
	return products, nil
}

func (s *catalogService) GetProduct(id uint) (*models.Product, error) {
	product, err := s.store.Products().GetByID(id)
	if err != nil {
		return nil, asNotFound(err, "product not found")
	}
	return product, nil
}

func (s *catalogService) CreateProduct(in ProductInput) (*models.Product, error) {
	if in.Name == "" || in.Description == "" || in.CategoryID == 0 {
		return nil, apperrors.New(apperrors.KindInvalidInput, "invalid data provided")
	}
	if in.Price < 0 {
		return nil, apperrors.New(apperrors.KindInvalidInput, "price must not be negative")
	}
	if _, err := s.store.Categories().GetByID(in.CategoryID); err != nil {
		return nil, asNotFound(err, "category not found")
	}

	product := &models.Product{
		Name:        in.Name,
		Description: in.Description,
		Price:       in.Price,
		ImageURL:    in.ImageURL,
		CategoryID:  in.CategoryID,
	}
	if err := s.store.Products().Create(product); err != nil {
		return nil, err
	}
	s.invalidate(product.CategoryID)
	return product, nil
}

func (s *catalogService) UpdateProduct(id uint, in ProductUpdate) (*models.Product, error) {
	product, err := s.store.Products().GetByID(id)
	if err != nil {
		return nil, asNotFound(err, "product not found")
	}

	oldCategory := product.CategoryID
	if in.Name != nil {
		product.Name = *in.Name
	}
	if in.Description != nil {
		product.Description = *in.Description
	}
	if in.Price != nil {
		if *in.Price < 0 {
			return nil, apperrors.New(apperrors.KindInvalidInput, "price must not be negative")
		}
		product.Price = *in.Price
	}
	if in.ImageURL != nil {
		product.ImageURL = *in.ImageURL
	}
	if in.CategoryID != nil {
		if _, err := s.store.Categories().GetByID(*in.CategoryID); err != nil {
			return nil, asNotFound(err, "category not found")
		}
		product.CategoryID = *in.CategoryID
	}

	if err := s.store.Products().Update(product); err != nil {
		return nil, err
	}
	s.invalidate(oldCategory, product.CategoryID)
	return product, nil
}

func (s *catalogService) DeleteProduct(id uint) (*models.Product, error) {
	product, err := s.store.Products().GetByID(id)
	if err != nil {
		return nil, asNotFound(err, "product not found")
	}
	if err := s.store.Products().Delete(id); err != nil {
		return nil, err
	}
	s.invalidate(product.CategoryID)
	return product, nil
}

func (s *catalogService) ListCategories() ([]models.Category, error) {
	return s.store.Categories().GetAll()
}

func (s *catalogService) CreateCategory(name string) (*models.Category, error) {
	if name == "" {
		return nil, apperrors.New(apperrors.KindInvalidInput, "invalid data provided")
	}
	category := &models.Category{Name: name}
	if err := s.store.Categories().Create(category); err != nil {
		return nil, err
	}
	return category, nil
}

func (s *catalogService) ListProductsByCategory(categoryID uint) ([]models.Product, error) {
	if _, err := s.store.Categories().GetByID(categoryID); err != nil {
		return nil, asNotFound(err, "category not found")
	}

	if s.cache != nil {
		key := s.cache.CategoryProductsKey(categoryID)
		if products, err := s.cache.GetProductList(key); err == nil {
			return products, nil
		} else if err != redis.ErrCacheMiss {
			log.Printf("product cache read failed: %v", err)
		}
	}

	products, err := s.store.Products().GetByCategoryID(categoryID)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		if err := s.cache.SetProductList(s.cache.CategoryProductsKey(categoryID), products); err != nil {
			log.Printf("product cache write failed: %v", err)
		}
	}
	return products, nil
}

func (s *catalogService) invalidate(categoryIDs ...uint) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateProducts(categoryIDs...); err != nil {
		log.Printf("product cache invalidation failed: %v", err)
	}
}

// asNotFound converts a missing-row error into a NotFound domain error and
// passes every other store failure through untouched.
func asNotFound(err error, message string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperrors.New(apperrors.KindNotFound, message)
	}
	return err
}
