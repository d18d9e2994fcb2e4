package configurator

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// APIError - ошибка уровня транспорта или API. Message содержит текст,
// присланный сервером, либо общий фолбэк.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error (status %d): %s", e.StatusCode, e.Message)
}

const genericFailureMessage = "operation failed"

// Client - клиент API вопросов доп. услуг. Используется конфигуратором
// для отправки черновиков и листингом для загрузки/удаления.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// NewClient создает клиент. baseURL - адрес API вплоть до версии,
// например https://host/api/v1. token - JWT оператора.
func NewClient(baseURL, token string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      token,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

// конверт ответов API: {success, message, data}
type apiEnvelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// SubmitDraft валидирует черновик и отправляет его: POST /questions в
// режиме создания, PATCH /questions/{id} в режиме редактирования.
// При любой ошибке черновик остается без изменений, оператор может
// повторить отправку.
func (c *Client) SubmitDraft(ctx context.Context, d *Draft) (*PersistedQuestion, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}

	var body bytes.Buffer
	contentType, err := d.EncodeMultipart(&body)
	if err != nil {
		return nil, fmt.Errorf("encode draft: %w", err)
	}

	method := http.MethodPost
	url := c.baseURL + "/questions"
	if d.EditMode() {
		method = http.MethodPatch
		url = c.baseURL + "/questions/" + d.QuestionID()
	}

	req, err := http.NewRequestWithContext(ctx, method, url, &body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", contentType)
	c.authorize(req)

	envelope, statusCode, err := c.do(req)
	if err != nil {
		return nil, err
	}
	if statusCode >= 300 || !envelope.Success {
		return nil, apiErrorFrom(statusCode, envelope)
	}

	var question PersistedQuestion
	if len(envelope.Data) > 0 {
		if err := json.Unmarshal(envelope.Data, &question); err != nil {
			return nil, fmt.Errorf("decode response: %w", err)
		}
	}
	return &question, nil
}

// QuestionsByCategory загружает вопросы категории для режима редактирования
func (c *Client) QuestionsByCategory(ctx context.Context, categoryID string) ([]PersistedQuestion, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.baseURL+"/questions/categories/"+categoryID, nil)
	if err != nil {
		return nil, err
	}
	c.authorize(req)

	envelope, statusCode, err := c.do(req)
	if err != nil {
		return nil, err
	}
	if statusCode >= 300 || !envelope.Success {
		return nil, apiErrorFrom(statusCode, envelope)
	}

	var questions []PersistedQuestion
	if len(envelope.Data) > 0 {
		if err := json.Unmarshal(envelope.Data, &questions); err != nil {
			return nil, fmt.Errorf("decode response: %w", err)
		}
	}
	return questions, nil
}

// DeleteQuestion удаляет вопрос (вызывается из листинга, не из конфигуратора)
func (c *Client) DeleteQuestion(ctx context.Context, questionID string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete,
		c.baseURL+"/questions/"+questionID, nil)
	if err != nil {
		return err
	}
	c.authorize(req)

	envelope, statusCode, err := c.do(req)
	if err != nil {
		return err
	}
	if statusCode >= 300 || !envelope.Success {
		return apiErrorFrom(statusCode, envelope)
	}
	return nil
}

func (c *Client) authorize(req *http.Request) {
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
}

func (c *Client) do(req *http.Request) (apiEnvelope, int, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return apiEnvelope{}, 0, &APIError{Message: genericFailureMessage}
	}
	defer resp.Body.Close()

	var envelope apiEnvelope
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return apiEnvelope{}, resp.StatusCode, &APIError{StatusCode: resp.StatusCode, Message: genericFailureMessage}
	}
	// тело может быть не-JSON (прокси, падение сервера) - тогда конверт
	// остается пустым и сработает общий фолбэк
	_ = json.Unmarshal(raw, &envelope)

	return envelope, resp.StatusCode, nil
}

func apiErrorFrom(statusCode int, envelope apiEnvelope) *APIError {
	message := envelope.Message
	if message == "" {
		message = genericFailureMessage
	}
	return &APIError{StatusCode: statusCode, Message: message}
}
