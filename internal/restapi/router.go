package restapi

// InitRouter registers every API route on the web server. Call after
// webserver.Init.
func InitRouter() {
	registerItemRoutes()
	registerMerchantRoutes()
	registerBIRoutes()
	registerSystemRoutes()
}
