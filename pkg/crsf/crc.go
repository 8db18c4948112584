// SPDX-License-Identifier: Apache-2.0

package crsf

// CRCTable is a 256-entry lookup table for an 8-bit CRC polynomial.
type CRCTable [256]byte

// NewCRCTable builds the lookup table for the given polynomial.
func NewCRCTable(poly byte) *CRCTable {
	var t CRCTable
	for idx := 0; idx < 256; idx++ {
		crc := byte(idx)
		for shift := 0; shift < 8; shift++ {
			if crc&0x80 != 0 {
				crc = (crc << 1) ^ poly
			} else {
				crc <<= 1
			}
		}
		t[idx] = crc
	}
	return &t
}

// Checksum folds data through the table starting from zero.
func (t *CRCTable) Checksum(data []byte) byte {
	crc := byte(0)
	for _, b := range data {
		crc = t[crc^b]
	}
	return crc
}

var crc8Table = NewCRCTable(CRCPolynomial)

// Checksum computes the protocol CRC8 (polynomial 0xD5) over data.
func Checksum(data []byte) byte {
	return crc8Table.Checksum(data)
}
