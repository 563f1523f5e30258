package botapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/zhilovhub/EasyShop/internal/domain"
)

// Client talks to the bot backend API: catalog, order-option schema,
// categories and order submission.
type Client struct {
	baseURL    string
	botID      int64
	authData   string
	httpClient *http.Client
}

func New(baseURL string, botID int64, authData string) *Client {
	return &Client{
		baseURL:    baseURL,
		botID:      botID,
		authData:   authData,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

type extraOptionDTO struct {
	Name           string    `json:"name"`
	Type           string    `json:"type"`
	Variants       []string  `json:"variants"`
	VariantsPrices []float64 `json:"variants_prices"`
}

type productDTO struct {
	ID           int64            `json:"id"`
	Name         string           `json:"name"`
	Description  string           `json:"description"`
	Price        float64          `json:"price"`
	Count        *int             `json:"count"`
	Category     []int64          `json:"category"`
	Picture      []string         `json:"picture"`
	ExtraOptions []extraOptionDTO `json:"extra_options"`
}

type orderOptionDTO struct {
	Option struct {
		ID         int64  `json:"id"`
		OptionName string `json:"option_name"`
		OptionType string `json:"option_type"`
		Hint       string `json:"hint"`
		Required   bool   `json:"required"`
	} `json:"option"`
}

// Products fetches the full product list for the bot.
func (c *Client) Products(ctx context.Context) ([]domain.Product, error) {
	url := fmt.Sprintf("%s/api/products/get_all_products/?bot_id=%d", c.baseURL, c.botID)
	var dtos []productDTO
	if err := c.do(ctx, http.MethodPost, url, nil, &dtos); err != nil {
		return nil, fmt.Errorf("fetch products: %w", err)
	}
	products := make([]domain.Product, 0, len(dtos))
	for _, d := range dtos {
		p := domain.Product{
			ID:          d.ID,
			Name:        d.Name,
			Description: d.Description,
			Price:       d.Price,
			Count:       d.Count,
			Categories:  d.Category,
			Pictures:    d.Picture,
		}
		for _, opt := range d.ExtraOptions {
			p.ExtraOptions = append(p.ExtraOptions, domain.OptionGroup{
				Name:          opt.Name,
				Kind:          domain.OptionKind(opt.Type),
				Variants:      opt.Variants,
				VariantPrices: opt.VariantsPrices,
				Selected:      make([]bool, len(opt.Variants)),
			})
		}
		products = append(products, p)
	}
	return products, nil
}

// OrderOptions fetches the dynamic order-intake field schema.
func (c *Client) OrderOptions(ctx context.Context) ([]domain.OrderField, error) {
	url := fmt.Sprintf("%s/api/settings/get_order_options/%d", c.baseURL, c.botID)
	var dtos []orderOptionDTO
	if err := c.do(ctx, http.MethodGet, url, nil, &dtos); err != nil {
		return nil, fmt.Errorf("fetch order options: %w", err)
	}
	fields := make([]domain.OrderField, 0, len(dtos))
	for _, d := range dtos {
		fields = append(fields, domain.OrderField{
			ID:       strconv.FormatInt(d.Option.ID, 10),
			Name:     d.Option.OptionName,
			Type:     domain.FieldType(d.Option.OptionType),
			Hint:     d.Option.Hint,
			Required: d.Option.Required,
		})
	}
	return fields, nil
}

// Categories fetches the shop category list.
func (c *Client) Categories(ctx context.Context) ([]domain.Category, error) {
	url := fmt.Sprintf("%s/api/categories/get_all_categories/%d", c.baseURL, c.botID)
	var cats []domain.Category
	if err := c.do(ctx, http.MethodGet, url, nil, &cats); err != nil {
		return nil, fmt.Errorf("fetch categories: %w", err)
	}
	return cats, nil
}

// SubmitOrder posts a composed payload to the bot backend. authData is the
// shopper's raw Telegram init data; when empty the client default is used.
func (c *Client) SubmitOrder(ctx context.Context, payload domain.OrderPayload, authData string) (domain.SubmitResult, error) {
	if len(payload.RawItems) == 0 {
		return domain.SubmitResult{}, errors.New("empty order")
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return domain.SubmitResult{}, err
	}
	url := c.baseURL + "/api/orders/send_order_data_to_bot"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return domain.SubmitResult{}, err
	}
	c.setHeaders(req, authData)
	res, err := c.httpClient.Do(req)
	if err != nil {
		return domain.SubmitResult{}, fmt.Errorf("submit order: %w", err)
	}
	defer res.Body.Close()
	if res.StatusCode >= 300 {
		b, _ := io.ReadAll(res.Body)
		return domain.SubmitResult{}, fmt.Errorf("submit order status %d: %s", res.StatusCode, string(b))
	}
	var result domain.SubmitResult
	if err := json.NewDecoder(res.Body).Decode(&result); err != nil {
		return domain.SubmitResult{}, err
	}
	return result, nil
}

// AddProduct pushes a product to the upstream catalog and returns its id.
func (c *Client) AddProduct(ctx context.Context, p domain.Product) (int64, error) {
	dto := productDTO{
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		Count:       p.Count,
		Category:    p.Categories,
		Picture:     p.Pictures,
	}
	for _, g := range p.ExtraOptions {
		dto.ExtraOptions = append(dto.ExtraOptions, extraOptionDTO{
			Name:           g.Name,
			Type:           string(g.Kind),
			Variants:       g.Variants,
			VariantsPrices: g.VariantPrices,
		})
	}
	var id int64
	if err := c.do(ctx, http.MethodPost, c.baseURL+"/api/products/add_product", dto, &id); err != nil {
		return 0, fmt.Errorf("add product: %w", err)
	}
	return id, nil
}

func (c *Client) do(ctx context.Context, method, url string, in, out any) error {
	var body io.Reader
	if in != nil {
		buf, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(buf)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return err
	}
	c.setHeaders(req, "")
	res, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()
	if res.StatusCode >= 300 {
		b, _ := io.ReadAll(res.Body)
		return fmt.Errorf("status %d: %s", res.StatusCode, string(b))
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(res.Body).Decode(out)
}

func (c *Client) setHeaders(req *http.Request, authData string) {
	if authData == "" {
		authData = c.authData
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("authorization-data", authData)
}
