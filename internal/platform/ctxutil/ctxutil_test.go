package ctxutil

import (
	"context"
	"testing"
)

func TestRequestDataRoundTrip(t *testing.T) {
	ctx := context.Background()
	if got := CurrentUserID(ctx); got != 0 {
		t.Fatalf("anonymous user id: want 0 got %d", got)
	}
	ctx = WithRequestData(ctx, &RequestData{UserID: 42, IsStaff: true})
	rd := GetRequestData(ctx)
	if rd == nil || rd.UserID != 42 || !rd.IsStaff {
		t.Fatalf("GetRequestData: got %+v", rd)
	}
	if got := CurrentUserID(ctx); got != 42 {
		t.Fatalf("CurrentUserID: want 42 got %d", got)
	}
}

func TestTraceDataRoundTrip(t *testing.T) {
	ctx := WithTraceData(context.Background(), &TraceData{TraceID: "t1", RequestID: "r1"})
	td := GetTraceData(ctx)
	if td == nil || td.TraceID != "t1" || td.RequestID != "r1" {
		t.Fatalf("GetTraceData: got %+v", td)
	}
	if GetTraceData(context.Background()) != nil {
		t.Fatalf("GetTraceData on empty ctx: want nil")
	}
}
