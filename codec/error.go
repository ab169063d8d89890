package codec

import (
	"fmt"

	"github.com/meridian-network/meridian-light/lib"
)

func ErrMarshal(err error) lib.ErrorI {
	return lib.NewError(lib.CodeMarshal, lib.CodecModule, fmt.Sprintf("marshal() failed with err: %s", err.Error()))
}

func ErrJSONMarshal(err error) lib.ErrorI {
	return lib.NewError(lib.CodeJSONEncode, lib.CodecModule, fmt.Sprintf("jsonMarshal() failed with err: %s", err.Error()))
}

func ErrInvalidSchema(err error) lib.ErrorI {
	return lib.NewError(lib.CodeInvalidSchema, lib.CodecModule, fmt.Sprintf("schema registration failed with err: %s", err.Error()))
}

func ErrUnknownMessageName(name string) lib.ErrorI {
	return lib.NewError(lib.CodeUnknownMessageName, lib.CodecModule, fmt.Sprintf("message %s is not registered", name))
}

func ErrNotConvertible(err error) lib.ErrorI {
	return lib.NewError(lib.CodeNotConvertibleValue, lib.CodecModule, fmt.Sprintf("value is not convertible with the schema: %s", err.Error()))
}
