package app

import (
	"crypto/md5"
	"encoding/hex"
)

// PhotoHash MD5 снимка в hex, ключ кэша результатов
func PhotoHash(data []byte) string {
	hash := md5.New()
	hash.Write(data)
	return hex.EncodeToString(hash.Sum(nil))
}
