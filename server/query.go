package server

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/theoremus-urban-solutions/marc2xml/config"
)

// requestOptions are the per-request settings after query overrides.
type requestOptions struct {
	cfg  config.AppConfig
	cont bool
}

func lowerParams(q url.Values) map[string]string {
	params := map[string]string{}
	for k, v := range q {
		if len(v) > 0 {
			params[strings.ToLower(k)] = v[0]
		}
	}
	return params
}

func parseBool(params map[string]string, key string) (bool, bool, error) {
	raw, ok := params[key]
	if !ok {
		return false, false, nil
	}
	if raw == "" {
		return true, true, nil
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		return false, false, fmt.Errorf("%s: invalid boolean %q", key, raw)
	}
	return b, true, nil
}

// parseRequestOptions applies convert, fallback, normalize, pretty and
// continue parameters to base and validates the result.
func parseRequestOptions(base config.AppConfig, format string, q url.Values) (requestOptions, error) {
	params := lowerParams(q)
	opts := requestOptions{cfg: base}
	opts.cfg.Output.Format = format

	if v, ok := params["convert"]; ok {
		opts.cfg.Converter.Strategy = strings.ToLower(v)
	}
	if v, ok := params["fallback"]; ok {
		opts.cfg.Converter.Fallback = strings.ToLower(v)
	}
	if b, ok, err := parseBool(params, "normalize"); err != nil {
		return requestOptions{}, err
	} else if ok {
		opts.cfg.Converter.Normalize = b
	}
	if b, ok, err := parseBool(params, "pretty"); err != nil {
		return requestOptions{}, err
	} else if ok {
		opts.cfg.Output.Pretty = b
	}
	b, _, err := parseBool(params, "continue")
	if err != nil {
		return requestOptions{}, err
	}
	opts.cont = b

	if err := config.Validate(opts.cfg); err != nil {
		return requestOptions{}, err
	}
	return opts, nil
}
