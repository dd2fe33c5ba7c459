package middleware

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"

	ledgerService "betcore/services/ledger"
)

// LedgerErrorResponse maps a settlement-engine error onto the standard JSON
// envelope. Unrecognized errors are logged and reported as a 500 without
// leaking storage details.
func LedgerErrorResponse(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, ledgerService.ErrAlreadySettled):
		return JsonResponse(c, fiber.StatusConflict, false, "Transaction already settled!", nil)
	case errors.Is(err, ledgerService.ErrAlreadyOpened):
		return JsonResponse(c, fiber.StatusConflict, false, "Chest already opened!", nil)
	case errors.Is(err, ledgerService.ErrDuplicateReference):
		return JsonResponse(c, fiber.StatusConflict, false, "Duplicate transaction reference!", nil)
	case errors.Is(err, ledgerService.ErrInsufficientFunds):
		return JsonResponse(c, fiber.StatusUnprocessableEntity, false, "Insufficient balance!", nil)
	case errors.Is(err, ledgerService.ErrIllegalTransition):
		return JsonResponse(c, fiber.StatusUnprocessableEntity, false, "Transition not allowed from the current status!", nil)
	case errors.Is(err, ledgerService.ErrDepositRequired):
		return JsonResponse(c, fiber.StatusForbidden, false, "At least one completed deposit is required!", nil)
	case errors.Is(err, ledgerService.ErrBalanceTooLow):
		return JsonResponse(c, fiber.StatusForbidden, false, "Balance below the required threshold!", nil)
	case errors.Is(err, ledgerService.ErrForbidden):
		return JsonResponse(c, fiber.StatusForbidden, false, "Access Denied!", nil)
	case errors.Is(err, ledgerService.ErrNotFound):
		return JsonResponse(c, fiber.StatusNotFound, false, "Not found!", nil)
	case errors.Is(err, ledgerService.ErrUpstreamUnavailable):
		return JsonResponse(c, fiber.StatusBadGateway, false, "Payment gateway unavailable, try again later!", nil)
	case errors.Is(err, ledgerService.ErrInvalidInput):
		return JsonResponse(c, fiber.StatusBadRequest, false, err.Error(), nil)
	default:
		log.Printf("ledger operation failed: %v", err)
		return JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to process your request!", nil)
	}
}
