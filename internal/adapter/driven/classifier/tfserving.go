// Package classifier provides the remote sequence classifier served over the
// TensorFlow Serving REST API.
package classifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/diillson/consumption-fraud-go/internal/domain/entity"
	"github.com/diillson/consumption-fraud-go/internal/domain/repository"
)

const defaultSignature = "serving_default"

// TFServingClassifier calls a model exported from Keras and served by
// TensorFlow Serving.
type TFServingClassifier struct {
	baseURL    string
	model      string
	shape      entity.Shape
	httpClient *http.Client
}

// NewTFServingClassifier creates a classifier for the given server and model.
// The declared input shape defaults to (n, 30, 6) until Probe reads it from the
// model metadata.
func NewTFServingClassifier(baseURL, model string, timeout time.Duration) *TFServingClassifier {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &TFServingClassifier{
		baseURL: strings.TrimRight(baseURL, "/"),
		model:   model,
		shape:   entity.Shape{Timesteps: entity.SequenceLength, Features: entity.NumFeatures},
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

var _ repository.Classifier = (*TFServingClassifier)(nil)

// PredictRequest is the row-format request body of the predict API.
type PredictRequest struct {
	Instances [][][]float64 `json:"instances"`
}

// PredictResponse holds one output row per instance. A sigmoid head yields rows
// of a single probability.
type PredictResponse struct {
	Predictions [][]float64 `json:"predictions"`
	Error       string      `json:"error,omitempty"`
}

// MetadataResponse is the subset of the model metadata document we read.
type MetadataResponse struct {
	ModelSpec struct {
		Name    string `json:"name"`
		Version string `json:"version"`
	} `json:"model_spec"`
	Metadata struct {
		SignatureDef struct {
			SignatureDef map[string]SignatureDef `json:"signature_def"`
		} `json:"signature_def"`
	} `json:"metadata"`
}

// SignatureDef describes one serving signature.
type SignatureDef struct {
	Inputs map[string]TensorInfo `json:"inputs"`
}

// TensorInfo describes one signature tensor.
type TensorInfo struct {
	Dtype       string `json:"dtype"`
	TensorShape struct {
		Dim []struct {
			Size string `json:"size"`
		} `json:"dim"`
	} `json:"tensor_shape"`
}

// Name returns the served model name.
func (c *TFServingClassifier) Name() string {
	return c.model
}

// InputShape returns the declared (timesteps, features) of the model input.
func (c *TFServingClassifier) InputShape() entity.Shape {
	return c.shape
}

// Probe reads the serving signature and records its input shape. Calling it is
// optional; without it the default (n, 30, 6) contract is assumed.
func (c *TFServingClassifier) Probe(ctx context.Context) (entity.Shape, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		fmt.Sprintf("%s/v1/models/%s/metadata", c.baseURL, c.model), nil)
	if err != nil {
		return entity.Shape{}, fmt.Errorf("failed to build metadata request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return entity.Shape{}, fmt.Errorf("metadata request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return entity.Shape{}, fmt.Errorf("metadata failed with status %d: %s", resp.StatusCode, string(body))
	}

	var meta MetadataResponse
	if err := json.NewDecoder(resp.Body).Decode(&meta); err != nil {
		return entity.Shape{}, fmt.Errorf("failed to decode metadata response: %w", err)
	}

	sig, ok := meta.Metadata.SignatureDef.SignatureDef[defaultSignature]
	if !ok {
		return entity.Shape{}, fmt.Errorf("model %s has no %q signature", c.model, defaultSignature)
	}
	if len(sig.Inputs) != 1 {
		return entity.Shape{}, fmt.Errorf("model %s: expected one input tensor, found %d", c.model, len(sig.Inputs))
	}

	for _, info := range sig.Inputs {
		dims := info.TensorShape.Dim
		if len(dims) != 3 {
			return entity.Shape{}, fmt.Errorf("model %s: expected a rank-3 input, got rank %d", c.model, len(dims))
		}
		timesteps, err := declaredDim(dims[1].Size, entity.SequenceLength)
		if err != nil {
			return entity.Shape{}, fmt.Errorf("model %s: invalid timesteps: %w", c.model, err)
		}
		features, err := declaredDim(dims[2].Size, entity.NumFeatures)
		if err != nil {
			return entity.Shape{}, fmt.Errorf("model %s: invalid features: %w", c.model, err)
		}
		c.shape = entity.Shape{Timesteps: timesteps, Features: features}
	}

	return c.shape, nil
}

// declaredDim parses a signature dimension. A variable dimension (-1) accepts
// any size, so the fixed default is kept.
func declaredDim(size string, fallback int) (int, error) {
	n, err := strconv.Atoi(size)
	if err != nil {
		return 0, fmt.Errorf("%q is not a number", size)
	}
	if n == -1 {
		return fallback, nil
	}
	if n <= 0 {
		return 0, fmt.Errorf("size %d must be positive", n)
	}
	return n, nil
}

// Predict sends the tensor as row-format instances and returns the first output
// of every row.
func (c *TFServingClassifier) Predict(ctx context.Context, input entity.Tensor) ([]float64, error) {
	body, err := json.Marshal(PredictRequest{Instances: input.Nested()})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		fmt.Sprintf("%s/v1/models/%s:predict", c.baseURL, c.model), bytes.NewBuffer(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build predict request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("predict request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("predict failed with status %d: %s", resp.StatusCode, string(body))
	}

	var result PredictResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode predict response: %w", err)
	}
	if result.Error != "" {
		return nil, fmt.Errorf("model error: %s", result.Error)
	}

	probabilities := make([]float64, len(result.Predictions))
	for i, row := range result.Predictions {
		if len(row) == 0 {
			return nil, fmt.Errorf("prediction %d is empty", i)
		}
		probabilities[i] = row[0]
	}
	return probabilities, nil
}
