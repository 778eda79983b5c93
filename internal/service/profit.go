package service

import "fmt"

// ProfitInput is a proposed price against the costs of fulfilling it.
// PlatformFee and ProcessorFee override the configured percentages
// when set; zero means "compute from percentages".
type ProfitInput struct {
	SellingPrice  float64
	SupplierPrice float64
	PlatformFee   float64
	ProcessorFee  float64
	Tax           float64
	Shipping      float64
}

// ProfitBreakdown is the full landed-cost breakdown for one unit.
type ProfitBreakdown struct {
	Allowed         bool
	SellingPrice    float64
	SupplierPrice   float64
	PlatformFee     float64
	ProcessorFee    float64
	Tax             float64
	Shipping        float64
	TotalLandedCost float64
	NetProfit       float64
	Reason          string
}

// ProfitGuard validates that a selling price clears the landed cost.
// Pure: no I/O, deterministic for a given input and fee configuration.
type ProfitGuard struct {
	platformFeePct    float64
	processorFeePct   float64
	processorFeeFixed float64
}

// NewProfitGuard creates new ProfitGuard instance
func NewProfitGuard(platformFeePct, processorFeePct, processorFeeFixed float64) *ProfitGuard {
	return &ProfitGuard{
		platformFeePct:    platformFeePct,
		processorFeePct:   processorFeePct,
		processorFeeFixed: processorFeeFixed,
	}
}

// Check computes the landed cost breakdown for the input. Allowed is
// true only when the selling price strictly exceeds the total landed
// cost and net profit is positive. Callers that move money must
// refuse on Allowed=false, never clamp.
func (pg *ProfitGuard) Check(in ProfitInput) ProfitBreakdown {
	platformFee := in.PlatformFee
	if platformFee == 0 {
		platformFee = in.SellingPrice * pg.platformFeePct
	}

	processorFee := in.ProcessorFee
	if processorFee == 0 {
		processorFee = in.SellingPrice*pg.processorFeePct + pg.processorFeeFixed
	}

	landed := in.SupplierPrice + platformFee + processorFee + in.Tax + in.Shipping
	net := in.SellingPrice - landed

	out := ProfitBreakdown{
		SellingPrice:    in.SellingPrice,
		SupplierPrice:   in.SupplierPrice,
		PlatformFee:     platformFee,
		ProcessorFee:    processorFee,
		Tax:             in.Tax,
		Shipping:        in.Shipping,
		TotalLandedCost: landed,
		NetProfit:       net,
	}

	if in.SellingPrice > landed && net > 0 {
		out.Allowed = true
		return out
	}

	out.Reason = fmt.Sprintf("selling price %.2f does not cover landed cost %.2f (net %.2f)",
		in.SellingPrice, landed, net)
	return out
}

// Floor returns the break-even selling price for the given costs:
// the price at which net profit is exactly zero under the configured
// percentage fees. Any allowed price must strictly exceed it.
func (pg *ProfitGuard) Floor(supplierPrice, tax, shipping float64) float64 {
	fixed := supplierPrice + pg.processorFeeFixed + tax + shipping
	pctShare := 1 - pg.platformFeePct - pg.processorFeePct
	if pctShare <= 0 {
		return fixed
	}
	return fixed / pctShare
}
