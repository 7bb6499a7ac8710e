package regression

import (
	"errors"
)

var (
	ErrNoTrainingMatrix   = errors.New("no training matrix")
	ErrNoTargetMatrix     = errors.New("no target matrix")
	ErrNoDesignMatrix     = errors.New("no design matrix for inference")
	ErrTargetLenMismatch  = errors.New("target rows do not match training rows")
	ErrFeatureLenMismatch = errors.New("number of features does not match number of model coefficients")
	ErrUntrainedModel     = errors.New("model has not been fit yet")
)
