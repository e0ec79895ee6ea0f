// Package valueobject contains the immutable identifier types of the ledger
// domain. The central one is IBAN, a structured bank account identifier with
// an ISO 7064 mod-97 checksum.
package valueobject

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strconv"
	"strings"
)

// CountryCode is a two-letter country prefix recognized by the identifier
// engine.
type CountryCode string

const (
	CountryDE CountryCode = "DE"
	CountryAT CountryCode = "AT"
	CountryCH CountryCode = "CH"
	CountryFR CountryCode = "FR"
	CountryGB CountryCode = "GB"
	CountryNL CountryCode = "NL"
)

var recognizedCountries = map[CountryCode]struct{}{
	CountryDE: {}, CountryAT: {}, CountryCH: {},
	CountryFR: {}, CountryGB: {}, CountryNL: {},
}

// ParseCountry validates a two-letter country prefix.
func ParseCountry(text string) (CountryCode, error) {
	code := CountryCode(strings.ToUpper(strings.TrimSpace(text)))
	if _, ok := recognizedCountries[code]; !ok {
		return "", fmt.Errorf("%w: %q", ErrInvalidCountryCode, text)
	}
	return code, nil
}

// Identifier parsing errors. Each names the field that failed so callers can
// report which part of the input was rejected.
var (
	ErrInvalidFormat        = errors.New("identifier must be 22 characters")
	ErrInvalidCountryCode   = errors.New("unrecognized country code")
	ErrInvalidChecksum      = errors.New("invalid checksum")
	ErrInvalidBankCode      = errors.New("invalid bank code")
	ErrInvalidAccountNumber = errors.New("invalid account number")
)

const (
	canonicalLength    = 22
	accountNumberWidth = 10
	bankCodeWidth      = 8
)

// IBAN is an immutable, structured bank account identifier:
// two-letter country, 2-digit checksum, 8-digit bank code and an account
// number of up to 10 digits (zero-padded in the canonical text form).
type IBAN struct {
	country       CountryCode
	checkSum      int
	bankCode      int
	accountNumber int64
}

// New constructs an IBAN for the given bank code and account number,
// computing the checksum.
func New(country CountryCode, bankCode int, accountNumber int64) IBAN {
	return IBAN{
		country:       country,
		checkSum:      Checksum(bankCode, accountNumber, country),
		bankCode:      bankCode,
		accountNumber: accountNumber,
	}
}

// Generate constructs an IBAN with a random 10-digit account number, each
// digit drawn uniformly from 0-9. Uniqueness against existing accounts is the
// caller's responsibility.
func Generate(country CountryCode, bankCode int) IBAN {
	return New(country, bankCode, randomAccountNumber())
}

// Checksum computes the 2-digit mod-97 check value for the identifier parts.
// The BBAN (bank code in the high digits, account number in the low ten) is
// followed by the digit-mapped country code and two zero placeholders, and the
// whole number is reduced mod 97. Intermediate values exceed 64-bit range, so
// the arithmetic runs on big.Int.
func Checksum(bankCode int, accountNumber int64, country CountryCode) int {
	bban := new(big.Int).SetInt64(int64(bankCode))
	bban.Mul(bban, pow10(accountNumberWidth))
	bban.Add(bban, big.NewInt(accountNumber))

	// Letter -> position in alphabet + 9, e.g. "DE" -> 1314, then two zero
	// placeholder digits for the checksum position.
	numericCountry := (int(country[0]-'A') + 10) * 100
	numericCountry += int(country[1]-'A') + 10
	numericCountry *= 100

	checkNumber := bban.Mul(bban, pow10(6))
	checkNumber.Add(checkNumber, big.NewInt(int64(numericCountry)))

	mod := new(big.Int).Mod(checkNumber, big.NewInt(97))
	return 98 - int(mod.Int64())
}

// Parse decodes an identifier from its text form. All whitespace is stripped
// first; the remainder must be exactly 22 characters. Parse validates the
// shape of every field but does not re-verify the checksum invariant; callers
// that need a trusted identifier call Verify separately.
func Parse(text string) (IBAN, error) {
	s := strings.Join(strings.Fields(text), "")
	if len(s) != canonicalLength {
		return IBAN{}, fmt.Errorf("%w: got %d characters", ErrInvalidFormat, len(s))
	}

	country := CountryCode(strings.ToUpper(s[0:2]))
	if _, ok := recognizedCountries[country]; !ok {
		return IBAN{}, fmt.Errorf("%w: %q", ErrInvalidCountryCode, s[0:2])
	}

	checkSum, err := strconv.Atoi(s[2:4])
	if err != nil {
		return IBAN{}, fmt.Errorf("%w: %q", ErrInvalidChecksum, s[2:4])
	}

	bankCode, err := strconv.Atoi(s[4:12])
	if err != nil {
		return IBAN{}, fmt.Errorf("%w: %q", ErrInvalidBankCode, s[4:12])
	}

	accountNumber, err := strconv.ParseInt(s[12:22], 10, 64)
	if err != nil {
		return IBAN{}, fmt.Errorf("%w: %q", ErrInvalidAccountNumber, s[12:22])
	}

	return IBAN{
		country:       country,
		checkSum:      checkSum,
		bankCode:      bankCode,
		accountNumber: accountNumber,
	}, nil
}

// Verify recomputes the checksum from the identifier's parts and compares it
// with the stored one. Identifiers received from external input must pass
// Verify before they are treated as routable.
func (i IBAN) Verify() error {
	if want := Checksum(i.bankCode, i.accountNumber, i.country); i.checkSum != want {
		return fmt.Errorf("%w: got %02d, want %02d", ErrInvalidChecksum, i.checkSum, want)
	}
	return nil
}

// Country returns the country code.
func (i IBAN) Country() CountryCode {
	return i.country
}

// CheckSum returns the stored 2-digit checksum.
func (i IBAN) CheckSum() int {
	return i.checkSum
}

// BankCode returns the 8-digit bank code.
func (i IBAN) BankCode() int {
	return i.bankCode
}

// AccountNumber returns the account number (up to 10 digits).
func (i IBAN) AccountNumber() int64 {
	return i.accountNumber
}

// IsZero returns true for the zero identifier.
func (i IBAN) IsZero() bool {
	return i == IBAN{}
}

// Equal returns true if both identifiers have the same parts.
func (i IBAN) Equal(other IBAN) bool {
	return i == other
}

// String returns the canonical 22-character form: country, checksum, bank
// code and account number, the numeric fields zero-padded, no separators.
func (i IBAN) String() string {
	return fmt.Sprintf("%s%02d%08d%010d", i.country, i.checkSum, i.bankCode, i.accountNumber)
}

// Display returns the canonical form grouped in blocks of four for humans,
// e.g. "DE89 3704 0044 0532 0130 00".
func (i IBAN) Display() string {
	s := i.String()
	var b strings.Builder
	for pos := 0; pos < len(s); pos += 4 {
		if pos > 0 {
			b.WriteByte(' ')
		}
		end := pos + 4
		if end > len(s) {
			end = len(s)
		}
		b.WriteString(s[pos:end])
	}
	return b.String()
}

func randomAccountNumber() int64 {
	var n int64
	for i := 0; i < accountNumberWidth; i++ {
		digit, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			panic(fmt.Sprintf("failed to draw random digit: %v", err))
		}
		n = n*10 + digit.Int64()
	}
	return n
}

func pow10(exp int64) *big.Int {
	return new(big.Int).Exp(big.NewInt(10), big.NewInt(exp), nil)
}
