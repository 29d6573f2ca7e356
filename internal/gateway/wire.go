package gateway

import (
	"time"

	"github.com/allisson/cardtoken/internal/card/domain"
)

type cardResponse struct {
	ID                 string  `json:"id"`
	Object             string  `json:"object"`
	Brand              string  `json:"brand"`
	Last4              string  `json:"last4"`
	ExpMonth           int     `json:"exp_month"`
	ExpYear            int     `json:"exp_year"`
	Name               *string `json:"name"`
	Fingerprint        string  `json:"fingerprint"`
	ThreeDSecureStatus *string `json:"three_d_secure_status"`
	Created            int64   `json:"created"`
}

type tokenResponse struct {
	ID       string       `json:"id"`
	Object   string       `json:"object"`
	Livemode bool         `json:"livemode"`
	Used     bool         `json:"used"`
	Created  int64        `json:"created"`
	Card     cardResponse `json:"card"`
}

type errorResponse struct {
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
		Param   string `json:"param"`
		Status  int    `json:"status"`
		Type    string `json:"type"`
	} `json:"error"`
}

type acceptedBrandsResponse struct {
	CardTypesSupported []string `json:"card_types_supported"`
}

func (r tokenResponse) toDomain() *domain.Token {
	brand, _ := domain.ParseBrandName(r.Card.Brand)
	card := domain.Card{
		ID:          r.Card.ID,
		Brand:       brand,
		Last4:       r.Card.Last4,
		ExpMonth:    r.Card.ExpMonth,
		ExpYear:     r.Card.ExpYear,
		Fingerprint: r.Card.Fingerprint,
		CreatedAt:   unixTime(r.Card.Created),
	}
	if r.Card.Name != nil {
		card.Name = *r.Card.Name
	}
	if r.Card.ThreeDSecureStatus != nil {
		status := domain.ThreeDSecureStatus(*r.Card.ThreeDSecureStatus)
		card.ThreeDSecureStatus = &status
	}

	return &domain.Token{
		ID:        r.ID,
		Livemode:  r.Livemode,
		Used:      r.Used,
		Card:      card,
		CreatedAt: unixTime(r.Created),
	}
}

func unixTime(seconds int64) time.Time {
	if seconds == 0 {
		return time.Time{}
	}
	return time.Unix(seconds, 0).UTC()
}
