/*
* Copyright (c) 2023-present unTill Pro, Ltd.
* @author Maxim Geraskin
 */

package istoragecache

// Marks cached blobs so that stored zero-length blob differs from cache miss
const cachedBlobMark byte = 1
