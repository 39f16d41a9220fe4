package pricing

import (
	"Backend-VentSurvey/src/database"
	"Backend-VentSurvey/src/models"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
)

// Lookup อ่านราคาจาก price book ภายนอก (read-only)
// คืน nil, nil เมื่อไม่พบราคา — ฝั่ง quote จะตีเป็น POA
type Lookup interface {
	FindPrice(ctx context.Context, category, subcategory, item, grade string) (*models.Money, error)
}

// HTTPLookup เรียก price-book API ผ่าน HTTP
type HTTPLookup struct {
	base   string
	client *http.Client
}

// NewHTTPLookup อ่าน base URL จาก PRICEBOOK_API
func NewHTTPLookup() *HTTPLookup {
	return &HTTPLookup{
		base:   os.Getenv("PRICEBOOK_API"),
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

type priceResponse struct {
	Found    bool   `json:"found"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}

func (l *HTTPLookup) FindPrice(ctx context.Context, category, subcategory, item, grade string) (*models.Money, error) {
	if l.base == "" {
		return nil, errors.New("PRICEBOOK_API not configured")
	}

	query := url.Values{}
	query.Set("category", category)
	query.Set("subcategory", subcategory)
	query.Set("item", item)
	query.Set("grade", grade)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.base+"/price?"+query.Encode(), nil)
	if err != nil {
		return nil, err
	}

	res, err := l.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if res.StatusCode != http.StatusOK {
		return nil, errors.New("price book returned status " + res.Status)
	}

	var out priceResponse
	if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
		return nil, err
	}
	if !out.Found {
		return nil, nil
	}
	return &models.Money{Amount: out.Amount, Currency: out.Currency}, nil
}

// CachedLookup ครอบ Lookup ด้วย Redis cache
// ถ้า Redis ไม่พร้อม (dev mode) จะทะลุไปถามตรงทุกครั้ง
type CachedLookup struct {
	inner Lookup
	ttl   time.Duration
}

func NewCachedLookup(inner Lookup, ttl time.Duration) *CachedLookup {
	return &CachedLookup{inner: inner, ttl: ttl}
}

func cacheKey(category, subcategory, item, grade string) string {
	return fmt.Sprintf("price:%s:%s:%s:%s", category, subcategory, item, grade)
}

func (c *CachedLookup) FindPrice(ctx context.Context, category, subcategory, item, grade string) (*models.Money, error) {
	client := database.RedisClient
	key := cacheKey(category, subcategory, item, grade)

	if client != nil {
		cached, err := client.Get(ctx, key).Result()
		if err == nil {
			var money models.Money
			if err := json.Unmarshal([]byte(cached), &money); err == nil {
				return &money, nil
			}
		} else if err != redis.Nil {
			log.Println("⚠️ price cache read failed:", err)
		}
	}

	money, err := c.inner.FindPrice(ctx, category, subcategory, item, grade)
	if err != nil {
		return nil, err
	}

	// cache เฉพาะราคาที่เจอ — ราคาที่หายอาจถูกเพิ่มเข้า price book เมื่อไรก็ได้
	if client != nil && money != nil {
		if encoded, err := json.Marshal(money); err == nil {
			if err := client.Set(ctx, key, encoded, c.ttl).Err(); err != nil {
				log.Println("⚠️ price cache write failed:", err)
			}
		}
	}
	return money, nil
}

// Default lookup ที่ต่อ price-book API จริง พร้อม cache 1 ชั่วโมง
func Default() Lookup {
	return NewCachedLookup(NewHTTPLookup(), time.Hour)
}
