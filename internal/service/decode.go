package service

import (
	"context"
	"edu_portal/internal/apiclient"
	"edu_portal/internal/model"
	"net/http"
	"net/url"
)

// 列表接口常见的包装键
var listKeys = []string{"items", "results", "data", "records"}

func fetchRecord(ctx context.Context, c *apiclient.Client, req apiclient.Request) (model.Record, error) {
	var r model.Record
	if _, err := c.Decode(ctx, req, &r); err != nil {
		return nil, err
	}
	if r == nil {
		r = model.Record{}
	}
	return r, nil
}

func fetchRecords(ctx context.Context, c *apiclient.Client, req apiclient.Request, keys ...string) ([]model.Record, error) {
	env, err := c.Decode(ctx, req, nil)
	if err != nil {
		return nil, err
	}
	if len(env.Data) == 0 {
		return nil, nil
	}
	return model.DecodeRecords(apiclient.UnwrapList(env.Data, append(keys, listKeys...)...))
}

func get(path string, query url.Values) apiclient.Request {
	return apiclient.Request{Method: http.MethodGet, Path: path, Query: query}
}

func post(path string, body interface{}) apiclient.Request {
	return apiclient.Request{Method: http.MethodPost, Path: path, Body: body}
}

func put(path string, body interface{}) apiclient.Request {
	return apiclient.Request{Method: http.MethodPut, Path: path, Body: body}
}
