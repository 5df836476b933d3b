package utils

import (
	"crypto/tls"
	"net/http"
	"time"
)

type HttpClientOption struct {
	Timeout            time.Duration
	InsecureSkipVerify bool
}

func NewHttpClient(opt HttpClientOption) *http.Client {
	return &http.Client{
		Transport: &http.Transport{
			TLSClientConfig: &tls.Config{InsecureSkipVerify: opt.InsecureSkipVerify},
			Proxy:           http.ProxyFromEnvironment,
		},
		Timeout: opt.Timeout,
	}
}
