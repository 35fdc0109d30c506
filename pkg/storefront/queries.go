package storefront

const cartLineFragment = `
fragment CartLine on CartLine {
  id
  quantity
  merchandise {
    ... on ProductVariant {
      id
      title
      product {
        title
        handle
      }
      image {
        url
        altText
      }
      price {
        amount
        currencyCode
      }
    }
  }
}
`

const cartFragment = cartLineFragment + `
fragment CartFields on Cart {
  id
  checkoutUrl
  totalQuantity
  cost {
    subtotalAmount {
      amount
      currencyCode
    }
  }
  lines(first: 100) {
    nodes {
      ...CartLine
    }
  }
}
`

const cartQuery = cartFragment + `
query cart($cartId: ID!) {
  cart(id: $cartId) {
    ...CartFields
  }
}
`

const cartCreateMutation = cartFragment + `
mutation cartCreate($input: CartInput!) {
  cartCreate(input: $input) {
    cart {
      ...CartFields
    }
    userErrors {
      field
      message
    }
  }
}
`

const cartLinesAddMutation = cartFragment + `
mutation cartLinesAdd($cartId: ID!, $lines: [CartLineInput!]!) {
  cartLinesAdd(cartId: $cartId, lines: $lines) {
    cart {
      ...CartFields
    }
    userErrors {
      field
      message
    }
  }
}
`

const cartLinesUpdateMutation = cartFragment + `
mutation cartLinesUpdate($cartId: ID!, $lines: [CartLineUpdateInput!]!) {
  cartLinesUpdate(cartId: $cartId, lines: $lines) {
    cart {
      ...CartFields
    }
    userErrors {
      field
      message
    }
  }
}
`

const cartLinesRemoveMutation = cartFragment + `
mutation cartLinesRemove($cartId: ID!, $lineIds: [ID!]!) {
  cartLinesRemove(cartId: $cartId, lineIds: $lineIds) {
    cart {
      ...CartFields
    }
    userErrors {
      field
      message
    }
  }
}
`

const shopQuery = `
query shop {
  shop {
    name
  }
}
`
