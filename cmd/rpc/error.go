package rpc

import (
	"fmt"

	"github.com/JudioLam9/contracts-v3/lib"
)

func ErrServerTimeout() lib.ErrorI {
	return lib.NewError(lib.CodeRPCTimeout, lib.RPCModule, "server timeout")
}

func ErrInvalidParams(err error) lib.ErrorI {
	return lib.NewError(lib.CodeRPCUnmarshal, lib.RPCModule, fmt.Sprintf("invalid params: %s", err.Error()))
}

func ErrDecodeAddress(s string) lib.ErrorI {
	return lib.NewError(lib.CodeRPCDecodeAddress, lib.RPCModule, fmt.Sprintf("address %s is not valid hex", s))
}

func ErrPostRequest(err error) lib.ErrorI {
	return lib.NewError(lib.CodeRPCPostRequest, lib.RPCModule, fmt.Sprintf("http.Post() failed with err: %s", err.Error()))
}

func ErrGetRequest(err error) lib.ErrorI {
	return lib.NewError(lib.CodeRPCGetRequest, lib.RPCModule, fmt.Sprintf("http.Get() failed with err: %s", err.Error()))
}

func ErrHttpStatus(status string, statusCode int, body []byte) lib.ErrorI {
	return lib.NewError(lib.CodeRPCHttp, lib.RPCModule, fmt.Sprintf("http response bad status %s with code %d and body %s", status, statusCode, body))
}

func ErrReadBody(err error) lib.ErrorI {
	return lib.NewError(lib.CodeRPCUnmarshal, lib.RPCModule, fmt.Sprintf("io.ReadAll(http.ResponseBody) failed with err: %s", err.Error()))
}

func ErrServerClosed(err error) lib.ErrorI {
	return lib.NewError(lib.CodeRPCServerClosed, lib.RPCModule, fmt.Sprintf("rpc server closed with err: %s", err.Error()))
}

func ErrResourceUsage(err error) lib.ErrorI {
	return lib.NewError(lib.CodeRPCResourceUsage, lib.RPCModule, fmt.Sprintf("resource usage lookup failed with err: %s", err.Error()))
}
