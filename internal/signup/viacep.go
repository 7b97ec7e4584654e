package signup

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"JewelStore/pkg/brdoc"
)

// Address is the resolved street record for a CEP.
type Address struct {
	CEP          string `json:"cep"`
	Street       string `json:"street"`
	Neighborhood string `json:"neighborhood"`
	City         string `json:"city"`
	State        string `json:"state"`
}

var (
	ErrCEPInvalid     = errors.New("invalid cep")
	ErrCEPNotFound    = errors.New("cep not found")
	ErrCEPBadStatus   = errors.New("cep lookup bad status")
	ErrCEPUnavailable = errors.New("cep lookup unavailable")
)

// CEPClient resolves CEPs against a ViaCEP-compatible endpoint. Lookups
// are bound to the request context, so a superseded request is cancelled
// with its caller instead of finishing late and overwriting newer input.
type CEPClient struct {
	BaseURL string
	Client  *http.Client
}

func NewCEPClient(baseURL string) *CEPClient {
	return &CEPClient{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Client:  &http.Client{Timeout: 3 * time.Second},
	}
}

// viacepPayload is ViaCEP's wire format. An unknown CEP answers 200 with
// {"erro": true}.
type viacepPayload struct {
	CEP        string `json:"cep"`
	Logradouro string `json:"logradouro"`
	Bairro     string `json:"bairro"`
	Localidade string `json:"localidade"`
	UF         string `json:"uf"`
	Erro       bool   `json:"erro"`
}

func (c *CEPClient) Resolve(ctx context.Context, cep string) (Address, error) {
	digits := brdoc.Digits(cep)
	if !brdoc.ValidCEP(digits) {
		return Address{}, ErrCEPInvalid
	}

	url := fmt.Sprintf("%s/ws/%s/json/", c.BaseURL, digits)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return Address{}, err
	}

	resp, err := c.Client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return Address{}, ctx.Err()
		}
		return Address{}, ErrCEPUnavailable
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		// ViaCEP answers 400 for malformed CEPs.
		if resp.StatusCode == http.StatusBadRequest {
			return Address{}, ErrCEPInvalid
		}
		return Address{}, fmt.Errorf("%w: status=%d", ErrCEPBadStatus, resp.StatusCode)
	}

	var p viacepPayload
	if err := json.NewDecoder(resp.Body).Decode(&p); err != nil {
		return Address{}, err
	}
	if p.Erro {
		return Address{}, ErrCEPNotFound
	}

	return Address{
		CEP:          brdoc.FormatCEP(digits),
		Street:       p.Logradouro,
		Neighborhood: p.Bairro,
		City:         p.Localidade,
		State:        p.UF,
	}, nil
}
