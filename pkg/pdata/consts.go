/*
 * Copyright (c) 2026-present unTill Software Development Group B.V.
 */

package pdata

var fileMagic = [4]byte{'N', 'S', 'P', 'D'}

const fileVersion uint32 = 1

// Largest blob accepted by ParseFile
const MaxBlobSize = 16 * 1024 * 1024
