package services

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/ceramica/erp_backend/internal/apperrors"
	"github.com/ceramica/erp_backend/internal/core/domain"
	portsrepo "github.com/ceramica/erp_backend/internal/core/ports/repositories"
	portssvc "github.com/ceramica/erp_backend/internal/core/ports/services"
	"github.com/ceramica/erp_backend/internal/dto"
	"github.com/ceramica/erp_backend/internal/platform/config"
	"github.com/ceramica/erp_backend/internal/platform/events"
	"github.com/ceramica/erp_backend/internal/utils"
	"github.com/ceramica/erp_backend/internal/utils/pagination"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	invalidStoreCredentialsMessage = "كود المتجر أو كلمة المرور غير صحيحة"
	storeDisabledMessage           = "المتجر غير مفعل"
	catalogPageSize                = 200
)

type storeService struct {
	BaseService
	cfg             *config.Config
	storeRepo       portsrepo.StoreRepositoryFacade
	provisionalRepo portsrepo.ProvisionalSaleRepositoryFacade
	productRepo     portsrepo.ProductReader
	contactRepo     portsrepo.ContactReader
}

// NewStoreService creates the external store service used by staff and by the store portal.
func NewStoreService(
	cfg *config.Config,
	storeRepo portsrepo.StoreRepositoryFacade,
	provisionalRepo portsrepo.ProvisionalSaleRepositoryFacade,
	productRepo portsrepo.ProductReader,
	contactRepo portsrepo.ContactReader,
	options ...ServiceOption,
) portssvc.StoreSvcFacade {
	svc := &storeService{
		cfg:             cfg,
		storeRepo:       storeRepo,
		provisionalRepo: provisionalRepo,
		productRepo:     productRepo,
		contactRepo:     contactRepo,
	}
	svc.apply(options)
	return svc
}

var _ portssvc.StoreSvcFacade = (*storeService)(nil)

func (s *storeService) CreateStore(ctx context.Context, companyID string, req dto.CreateStoreRequest, userID string) (*domain.ExternalStore, error) {
	if err := s.AuthorizeWrite(ctx, userID, companyID, domain.PermStoresManage); err != nil {
		return nil, err
	}
	name := strings.TrimSpace(req.Name)
	code := strings.TrimSpace(req.Code)
	if name == "" || code == "" {
		return nil, apperrors.NewValidationFailedError("اسم المتجر والكود مطلوبان")
	}
	if len(req.Password) < utils.MinPasswordLength {
		return nil, apperrors.NewValidationFailedError("كلمة المرور قصيرة جداً")
	}
	contactID := optionalID(req.ContactID)
	if _, err := requireContact(ctx, s.contactRepo, companyID, contactID); err != nil {
		return nil, err
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		s.LogError(ctx, err, "Failed to hash store password")
		return nil, apperrors.NewAppError(http.StatusInternalServerError, "failed to hash password", err)
	}

	store := domain.ExternalStore{
		StoreID:      uuid.NewString(),
		CompanyID:    companyID,
		Name:         name,
		Code:         code,
		PasswordHash: hash,
		ContactID:    contactID,
		Phone:        strings.TrimSpace(req.Phone),
		IsActive:     true,
		AuditFields:  domain.NewAuditFields(userID, s.now()),
	}
	if err := s.storeRepo.CreateStore(ctx, store); err != nil {
		s.LogError(ctx, err, "Failed to create store", slog.String("company_id", companyID))
		return nil, err
	}

	s.LogInfo(ctx, "External store created",
		slog.String("company_id", companyID),
		slog.String("store_id", store.StoreID),
		slog.String("code", store.Code))
	return &store, nil
}

func (s *storeService) GetStore(ctx context.Context, companyID, storeID, userID string) (*domain.ExternalStore, error) {
	if err := s.AuthorizeUser(ctx, userID, companyID, domain.PermStoresManage); err != nil {
		return nil, err
	}
	return s.storeRepo.FindStoreByID(ctx, companyID, storeID)
}

func (s *storeService) ListStores(ctx context.Context, companyID, userID string) ([]domain.ExternalStore, error) {
	if err := s.AuthorizeUser(ctx, userID, companyID, domain.PermStoresManage); err != nil {
		return nil, err
	}
	return s.storeRepo.ListStores(ctx, companyID)
}

func (s *storeService) UpdateStore(ctx context.Context, companyID, storeID string, req dto.UpdateStoreRequest, userID string) (*domain.ExternalStore, error) {
	if err := s.AuthorizeWrite(ctx, userID, companyID, domain.PermStoresManage); err != nil {
		return nil, err
	}
	store, err := s.storeRepo.FindStoreByID(ctx, companyID, storeID)
	if err != nil {
		return nil, err
	}
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, apperrors.NewValidationFailedError("اسم المتجر مطلوب")
		}
		store.Name = name
	}
	if req.ContactID != nil {
		contactID := optionalID(req.ContactID)
		if _, err := requireContact(ctx, s.contactRepo, companyID, contactID); err != nil {
			return nil, err
		}
		store.ContactID = contactID
	}
	if req.Phone != nil {
		store.Phone = strings.TrimSpace(*req.Phone)
	}
	if req.IsActive != nil {
		store.IsActive = *req.IsActive
	}
	store.Touch(userID, s.now())

	if err := s.storeRepo.UpdateStore(ctx, *store); err != nil {
		s.LogError(ctx, err, "Failed to update store", slog.String("store_id", storeID))
		return nil, err
	}
	return store, nil
}

func (s *storeService) ResetStorePassword(ctx context.Context, companyID, storeID string, req dto.ResetStorePasswordRequest, userID string) error {
	if err := s.AuthorizeWrite(ctx, userID, companyID, domain.PermStoresManage); err != nil {
		return err
	}
	if len(req.Password) < utils.MinPasswordLength {
		return apperrors.NewValidationFailedError("كلمة المرور قصيرة جداً")
	}
	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		return apperrors.NewAppError(http.StatusInternalServerError, "failed to hash password", err)
	}
	if err := s.storeRepo.UpdateStorePassword(ctx, companyID, storeID, hash, userID); err != nil {
		s.LogError(ctx, err, "Failed to reset store password", slog.String("store_id", storeID))
		return err
	}
	s.LogInfo(ctx, "Store password reset", slog.String("store_id", storeID))
	return nil
}

func (s *storeService) ListExternalInvoices(ctx context.Context, companyID string, params dto.ListProvisionalParams, userID string) ([]domain.ProvisionalSale, *string, error) {
	if err := s.AuthorizeUser(ctx, userID, companyID, domain.PermProvisionalRead); err != nil {
		return nil, nil, err
	}
	source := domain.SourceExternalStore
	filter := domain.ProvisionalSaleFilter{
		Status:  params.Status,
		Source:  &source,
		StoreID: optionalID(params.StoreID),
	}
	return s.provisionalRepo.ListProvisionalSales(ctx, companyID, filter, pagination.NormalizeLimit(params.Limit), params.NextToken)
}

// Login authenticates a store by its code. The response never tells which check failed.
func (s *storeService) Login(ctx context.Context, req dto.StoreLoginRequest) (*dto.StoreLoginResponse, error) {
	invalid := apperrors.NewAppError(http.StatusUnauthorized, invalidStoreCredentialsMessage, nil)

	store, err := s.storeRepo.FindStoreByCode(ctx, strings.TrimSpace(req.Code))
	if err != nil {
		if isNotFound(err) {
			utils.CheckDummyPassword(req.Password)
			s.LogDebug(ctx, "Store login with unknown code")
			return nil, invalid
		}
		return nil, err
	}
	if !utils.CheckPasswordHash(req.Password, store.PasswordHash) || !store.IsActive {
		s.LogDebug(ctx, "Store login rejected", slog.String("store_id", store.StoreID))
		return nil, invalid
	}

	token, expiresAt, err := utils.GenerateStoreJWT(store.StoreID, store.CompanyID, s.cfg.JWTSecret, s.cfg.StoreJWTExpiryDuration, s.cfg.JWTIssuer)
	if err != nil {
		s.LogError(ctx, err, "Failed to generate store token", slog.String("store_id", store.StoreID))
		return nil, apperrors.NewAppError(http.StatusInternalServerError, "failed to generate token", err)
	}

	s.LogInfo(ctx, "Store logged in", slog.String("store_id", store.StoreID))
	return &dto.StoreLoginResponse{AccessToken: token, ExpiresAt: expiresAt, Store: store}, nil
}

// portalStore reloads the token's store so deactivation takes effect before the token expires.
func (s *storeService) portalStore(ctx context.Context, companyID, storeID string) (*domain.ExternalStore, error) {
	store, err := s.storeRepo.FindStoreByID(ctx, companyID, storeID)
	if err != nil {
		if isNotFound(err) {
			return nil, apperrors.NewAppError(http.StatusUnauthorized, storeDisabledMessage, err)
		}
		return nil, err
	}
	if !store.IsActive {
		return nil, apperrors.NewAppError(http.StatusUnauthorized, storeDisabledMessage, nil)
	}
	return store, nil
}

func (s *storeService) GetPortalStore(ctx context.Context, companyID, storeID string) (*domain.ExternalStore, error) {
	return s.portalStore(ctx, companyID, storeID)
}

// Catalog lists active products with sale prices; stock levels are reduced to availability.
func (s *storeService) Catalog(ctx context.Context, companyID, storeID string) ([]domain.CatalogItem, error) {
	if _, err := s.portalStore(ctx, companyID, storeID); err != nil {
		return nil, err
	}

	var items []domain.CatalogItem
	for offset := 0; ; offset += catalogPageSize {
		products, err := s.productRepo.ListProducts(ctx, companyID, domain.ProductFilter{}, catalogPageSize, offset)
		if err != nil {
			return nil, err
		}
		for _, p := range products {
			items = append(items, domain.CatalogItem{
				ProductID: p.ProductID,
				SKU:       p.SKU,
				Name:      p.Name,
				Category:  p.Category,
				Unit:      p.Unit,
				SalePrice: p.SalePrice,
				Available: p.StockQuantity.IsPositive(),
			})
		}
		if len(products) < catalogPageSize {
			break
		}
	}
	if items == nil {
		items = []domain.CatalogItem{}
	}
	return items, nil
}

// SubmitInvoice records a PENDING provisional sale priced from the catalogue.
func (s *storeService) SubmitInvoice(ctx context.Context, companyID, storeID string, req dto.StoreInvoiceRequest) (*domain.ProvisionalSale, error) {
	store, err := s.portalStore(ctx, companyID, storeID)
	if err != nil {
		return nil, err
	}

	customerName := strings.TrimSpace(req.CustomerName)
	if customerName == "" {
		customerName = store.Name
	}
	p := &domain.ProvisionalSale{
		ProvisionalSaleID: uuid.NewString(),
		CompanyID:         companyID,
		Source:            domain.SourceExternalStore,
		StoreID:           &store.StoreID,
		ContactID:         store.ContactID,
		CustomerName:      customerName,
		Status:            domain.StatusPending,
		Notes:             req.Notes,
		AuditFields:       domain.NewAuditFields(storeActor(store.StoreID), s.now()),
	}
	inputs := make([]lineInput, len(req.Lines))
	for i, l := range req.Lines {
		inputs[i] = lineInput{ProductID: l.ProductID, Quantity: l.Quantity, CataloguePrice: true}
	}
	if err := buildProvisionalLines(ctx, s.productRepo, p, inputs, decimal.Zero); err != nil {
		return nil, err
	}

	if err := s.provisionalRepo.CreateProvisionalSale(ctx, p); err != nil {
		s.LogError(ctx, err, "Failed to submit store invoice", slog.String("store_id", storeID))
		return nil, err
	}

	s.LogInfo(ctx, "Store invoice submitted",
		slog.String("store_id", storeID),
		slog.String("provisional_sale_id", p.ProvisionalSaleID),
		slog.String("number", p.Number))
	s.afterDocumentChange(ctx, events.ProvisionalSaleSubmitted, companyID, p.ProvisionalSaleID, storeActor(storeID), documentEventData(p.Number, p.Total, decimal.Zero))
	return p, nil
}

func (s *storeService) ListStoreInvoices(ctx context.Context, companyID, storeID string, params dto.CursorParams) ([]domain.ProvisionalSale, *string, error) {
	if _, err := s.portalStore(ctx, companyID, storeID); err != nil {
		return nil, nil, err
	}
	source := domain.SourceExternalStore
	filter := domain.ProvisionalSaleFilter{Source: &source, StoreID: &storeID}
	return s.provisionalRepo.ListProvisionalSales(ctx, companyID, filter, pagination.NormalizeLimit(params.Limit), params.NextToken)
}

func (s *storeService) GetStoreInvoice(ctx context.Context, companyID, storeID, provisionalSaleID string) (*domain.ProvisionalSale, error) {
	if _, err := s.portalStore(ctx, companyID, storeID); err != nil {
		return nil, err
	}
	p, err := s.provisionalRepo.FindProvisionalSaleByID(ctx, companyID, provisionalSaleID)
	if err != nil {
		return nil, err
	}
	if p.StoreID == nil || *p.StoreID != storeID {
		return nil, apperrors.NewNotFoundError("الفاتورة غير موجودة")
	}
	return p, nil
}

// storeActor is the audit identity recorded for changes made through the portal.
// Store ids share the user id format, and the SourceExternalStore flag tells them apart.
func storeActor(storeID string) string {
	return storeID
}
