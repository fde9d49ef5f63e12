package payment

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// Sign computes the gateway's payment signature for an order/payment
// pair: HMAC-SHA256 over "orderID|paymentID", hex encoded.
func Sign(orderRef, paymentID, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(orderRef + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

// VerifySignature compares a presented signature in constant time.
func VerifySignature(orderRef, paymentID, signature, secret string) bool {
	expected := Sign(orderRef, paymentID, secret)
	return hmac.Equal([]byte(expected), []byte(signature))
}
