// Package main builds the C-callable signing boundary:
//
//	go build -buildmode=c-shared -o libcoldstar.so ./cmd/libcoldstar
//
// Every entry point accepts and returns NUL-terminated C strings, never raw
// pointers into secret memory, with an integer status code where 0 means
// success. Strings allocated here must be released by the caller with
// signer_free_string; leaking one leaks memory but never key material, since
// returned containers and signing results carry no plaintext keys.
//
// The memory-pinning policy is read once from SIGNER_ALLOW_INSECURE_MEMORY
// when the library loads and passed into the core as a value.
package main

/*
#include <stdlib.h>
#include "signer.h"
*/
import "C"

import (
	"encoding/base64"
	"unicode/utf8"
	"unsafe"

	"github.com/mr-tron/base58"

	"github.com/devsyrem/coldstar/internal/config"
	"github.com/devsyrem/coldstar/internal/securemem"
	"github.com/devsyrem/coldstar/internal/signer"
)

// Status codes, matching the signer_result_t contract in signer.h.
const (
	codeOK            = 0
	codeNullArgument  = 1
	codeInvalidString = 2
	codeDecode        = 3
	codeCore          = 4
	codeSerialize     = 5
)

var ffiMode = config.ModeFromEnv()

// versionC is allocated once; signer_version callers must not free it.
var versionC = C.CString(signer.Version)

func newEngine() *signer.Engine {
	return &signer.Engine{Mode: ffiMode}
}

func success(result string) C.signer_result_t {
	return C.signer_result_t{error_code: codeOK, result: C.CString(result)}
}

func failure(code int, msg string) C.signer_result_t {
	return C.signer_result_t{error_code: C.int(code), result: C.CString(msg)}
}

// goString validates and copies a C string argument.
func goString(p *C.char) (string, C.signer_result_t, bool) {
	if p == nil {
		return "", failure(codeNullArgument, "null pointer argument"), false
	}
	s := C.GoString(p)
	if !utf8.ValidString(s) {
		return "", failure(codeInvalidString, "argument is not valid UTF-8"), false
	}
	return s, C.signer_result_t{}, true
}

// signer_create_container encrypts a base58 private key (32 or 64 bytes
// decoded) into a passphrase-protected container and returns the container
// JSON.
//
//export signer_create_container
func signer_create_container(privateKeyB58, passphrase *C.char) C.signer_result_t {
	keyB58, errResult, ok := goString(privateKeyB58)
	if !ok {
		return errResult
	}
	pass, errResult, ok := goString(passphrase)
	if !ok {
		return errResult
	}

	key, err := base58.Decode(keyB58)
	if err != nil {
		return failure(codeDecode, "base58 decode error: "+err.Error())
	}
	guard := securemem.NewGuard(key)
	defer guard.Release()

	container, err := newEngine().Encrypt(key, pass)
	if err != nil {
		return failure(codeCore, err.Error())
	}
	raw, err := container.ToJSON()
	if err != nil {
		return failure(codeSerialize, err.Error())
	}
	return success(raw)
}

// signer_sign_transaction decrypts a container with the passphrase and signs
// the base64-encoded payload, returning the signing result JSON.
//
//export signer_sign_transaction
func signer_sign_transaction(containerJSON, passphrase, transactionB64 *C.char) C.signer_result_t {
	container, errResult, ok := goString(containerJSON)
	if !ok {
		return errResult
	}
	pass, errResult, ok := goString(passphrase)
	if !ok {
		return errResult
	}
	txB64, errResult, ok := goString(transactionB64)
	if !ok {
		return errResult
	}

	payload, err := base64.StdEncoding.DecodeString(txB64)
	if err != nil {
		return failure(codeDecode, "base64 decode error: "+err.Error())
	}

	result, err := newEngine().DecryptAndSign(container, pass, payload)
	if err != nil {
		return failure(codeCore, err.Error())
	}
	raw, err := result.ToJSON()
	if err != nil {
		return failure(codeSerialize, err.Error())
	}
	return success(raw)
}

// signer_sign_direct signs a base64 message with a plaintext base58 private
// key. Prefer signer_sign_transaction with an encrypted container; here the
// caller is responsible for however the plaintext key was handled before
// this call.
//
//export signer_sign_direct
func signer_sign_direct(privateKeyB58, messageB64 *C.char) C.signer_result_t {
	keyB58, errResult, ok := goString(privateKeyB58)
	if !ok {
		return errResult
	}
	msgB64, errResult, ok := goString(messageB64)
	if !ok {
		return errResult
	}

	key, err := base58.Decode(keyB58)
	if err != nil {
		return failure(codeDecode, "base58 decode error: "+err.Error())
	}
	guard := securemem.NewGuard(key)
	defer guard.Release()

	message, err := base64.StdEncoding.DecodeString(msgB64)
	if err != nil {
		return failure(codeDecode, "base64 decode error: "+err.Error())
	}

	result, err := newEngine().SignDirect(key, message)
	if err != nil {
		return failure(codeCore, err.Error())
	}
	raw, err := result.ToJSON()
	if err != nil {
		return failure(codeSerialize, err.Error())
	}
	return success(raw)
}

// signer_version returns the core version. The returned pointer is static;
// do not free it.
//
//export signer_version
func signer_version() *C.char {
	return versionC
}

// signer_check_mlock_support reports whether this host can pin memory:
// 1 if supported, 0 otherwise.
//
//export signer_check_mlock_support
func signer_check_mlock_support() C.int {
	if signer.MlockSupported() {
		return 1
	}
	return 0
}

// signer_free_string releases a string allocated by a signer_* call. The
// pointer is invalid afterwards.
//
//export signer_free_string
func signer_free_string(p *C.char) {
	if p != nil {
		C.free(unsafe.Pointer(p))
	}
}

func main() {}
