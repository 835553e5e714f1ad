package util

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// ErrAddressNotFound 주소 검색 결과가 없는 경우
var ErrAddressNotFound = errors.New("주소를 찾을 수 없습니다")

// KakaoGeocodeResponse represents the response from Kakao address search API
type KakaoGeocodeResponse struct {
	Documents []struct {
		Address struct {
			AddressName string `json:"address_name"`
			X           string `json:"x"` // longitude
			Y           string `json:"y"` // latitude
		} `json:"address"`
		RoadAddress struct {
			AddressName string `json:"address_name"`
			X           string `json:"x"` // longitude
			Y           string `json:"y"` // latitude
		} `json:"road_address"`
	} `json:"documents"`
	Meta struct {
		TotalCount int `json:"total_count"`
	} `json:"meta"`
}

// KakaoGeocoder resolves postal addresses to WGS84 coordinates via the
// Kakao Local API.
// https://developers.kakao.com/docs/latest/ko/local/dev-guide#address-coord
type KakaoGeocoder struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

func NewKakaoGeocoder(apiKey string) *KakaoGeocoder {
	return &KakaoGeocoder{
		apiKey:  apiKey,
		baseURL: "https://dapi.kakao.com/v2/local/search/address.json",
		client:  &http.Client{Timeout: 5 * time.Second},
	}
}

// Geocode converts an address string to (latitude, longitude).
// Returns ErrAddressNotFound when the API has no match for the address.
func (g *KakaoGeocoder) Geocode(address string) (float64, float64, error) {
	if address == "" {
		return 0, 0, ErrAddressNotFound
	}
	if g.apiKey == "" {
		return 0, 0, fmt.Errorf("KAKAO_REST_API_KEY not configured")
	}

	params := url.Values{}
	params.Add("query", address)
	requestURL := fmt.Sprintf("%s?%s", g.baseURL, params.Encode())

	req, err := http.NewRequest(http.MethodGet, requestURL, nil)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Add("Authorization", fmt.Sprintf("KakaoAK %s", g.apiKey))

	resp, err := g.client.Do(req)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to call Kakao API: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return 0, 0, fmt.Errorf("kakao API returned status %d: %s", resp.StatusCode, string(body))
	}

	var result KakaoGeocodeResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return 0, 0, fmt.Errorf("failed to parse response: %w", err)
	}

	if result.Meta.TotalCount == 0 || len(result.Documents) == 0 {
		return 0, 0, ErrAddressNotFound
	}

	// Try road_address first, fall back to address
	doc := result.Documents[0]
	latStr, lngStr := doc.RoadAddress.Y, doc.RoadAddress.X
	if latStr == "" || lngStr == "" {
		latStr, lngStr = doc.Address.Y, doc.Address.X
	}
	if latStr == "" || lngStr == "" {
		return 0, 0, ErrAddressNotFound
	}

	lat, err := strconv.ParseFloat(latStr, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to parse latitude: %w", err)
	}
	lng, err := strconv.ParseFloat(lngStr, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to parse longitude: %w", err)
	}

	return lat, lng, nil
}
