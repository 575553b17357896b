package httphandler

import (
	"github.com/gofiber/fiber/v2"
)

func (h *HttpHandler) Mount(router fiber.Router) error {
	r := router.Group("/tokenfactory/v1")

	r.Get("/admin", h.GetAdmin)
	r.Post("/admin/register", h.RegisterAdmin)
	r.Post("/admin/change", h.ChangeAdmin)
	r.Put("/admin/binary", h.UpdateBinary)

	r.Post("/faucet/requests", h.SubmitFaucetRequest)
	r.Get("/faucet/requests", h.GetFaucetRequests)
	r.Get("/faucet/requests/me", h.GetMyFaucetRequest)
	r.Post("/faucet/requests/:requester/approve", h.ApproveFaucetRequest)
	r.Post("/faucet/requests/:requester/reject", h.RejectFaucetRequest)

	r.Post("/tokens", h.CreateToken)
	r.Get("/tokens", h.GetTokens)
	r.Get("/tokens/:tokenId", h.GetToken)
	r.Get("/owners/:owner/token", h.GetTokenByOwner)

	r.Post("/tokens/:tokenId/purchase", h.PurchaseToken)
	r.Get("/purchases/me", h.GetMyPurchases)
	r.Get("/purchases/:identity", h.GetPurchases)

	r.Post("/ledger/balances/batch", h.GetBalancesBatch)
	r.Get("/ledger/balances/:account", h.GetBalance)
	r.Get("/ledger/total-supply", h.GetTotalSupply)
	return nil
}
