package services

// ServiceContainer holds instances of all the application services.
// This is the main entry point for accessing service functionality and
// is used throughout the application, particularly in the handlers.
type ServiceContainer struct {
	User            UserSvcFacade
	Token           TokenSvcFacade
	Company         CompanySvcFacade
	Product         ProductSvcFacade
	Treasury        TreasurySvcFacade
	Supplier        SupplierSvcFacade
	Contact         ContactSvcFacade
	Sale            SaleSvcFacade
	Purchase        PurchaseSvcFacade
	ProvisionalSale ProvisionalSaleSvcFacade
	Store           StoreSvcFacade
	Stats           StatsSvc
}
